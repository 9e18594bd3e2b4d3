package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const referenceLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateDocumentReference builds a human-readable reference for
// receipts and tickets, e.g. "PWP-GRM-7F3K2Q9X". Uniqueness comes from
// the random tail; the stored document also carries the row's UUID.
func GenerateDocumentReference(kind string) string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, referenceLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}

	return fmt.Sprintf("PWP-%s-%s", kind, string(b))
}
