package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PAWPAL_TEST_KEY", "value-from-env")

	assert.Equal(t, "value-from-env", Config("PAWPAL_TEST_KEY"))
	assert.Equal(t, "", Config("PAWPAL_TEST_KEY_UNSET"))
}
