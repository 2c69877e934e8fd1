package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

func GenerateRandomString() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateInviteCode returns a short human-pasteable code. Uniqueness is
// enforced by the database; callers retry on conflict.
func GenerateInviteCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, len(b))
	for i := range b {
		code[i] = alphabet[int(b[i])%len(alphabet)]
	}

	return string(code), nil
}

func Hash(b []byte) string {
	hashed := sha256.Sum224(b)
	return base64.StdEncoding.EncodeToString(hashed[:])
}

func MapKeys[K comparable, V any](m map[K]V) []K {
	var result []K
	for k := range m {
		result = append(result, k)
	}
	return result
}
