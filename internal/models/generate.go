package models

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/lithammer/shortuuid/v4"
)

const (
	slugDefaultLength = 6
	// Unambiguous lowercase alphabet: no 0/o, 1/l or i.
	slugAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"
)

// NewLinkID generates the unique id stored in the analytics index slot.
func NewLinkID() string {
	return shortuuid.New()
}

// NewSlug generates a random slug from the unambiguous alphabet.
func NewSlug() (string, error) {
	slug := make([]byte, 0, slugDefaultLength)
	alphabetSize := big.NewInt(int64(len(slugAlphabet)))
	for i := 0; i < slugDefaultLength; i++ {
		num, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate slug: %w", err)
		}
		slug = append(slug, slugAlphabet[num.Int64()])
	}
	return string(slug), nil
}
