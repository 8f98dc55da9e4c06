package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateCode returns a random hex token of 2*byteLength characters.
func GenerateCode(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateBarcode builds a code of the form <3-letter prefix><10 uppercase
// hex characters>. Collisions are possible but vanishingly unlikely.
func GenerateBarcode(prefix string) (string, error) {
	token, err := GenerateCode(5)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(prefix) + strings.ToUpper(token), nil
}
