package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDocumentReference(t *testing.T) {
	ref := GenerateDocumentReference("GRM")

	assert.True(t, strings.HasPrefix(ref, "PWP-GRM-"))
	assert.Len(t, ref, len("PWP-GRM-")+8)

	tail := strings.TrimPrefix(ref, "PWP-GRM-")
	for _, r := range tail {
		assert.Contains(t, letterBytes, string(r))
	}
}
