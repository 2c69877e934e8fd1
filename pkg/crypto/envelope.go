package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Message bodies are stored as a single text envelope of the form
// "base64(ciphertext):base64(nonce)". The colon never appears in standard
// base64, so splitting on it is unambiguous.
const envelopeDelimiter = ":"

// DecryptPlaceholder replaces the body of a message whose envelope cannot be
// opened with any known key derivation. Decryption failures are not errors;
// the conversation stays readable around them.
const DecryptPlaceholder = "[Unable to decrypt message]"

// Conversation keys are derived from stable public identifiers so every
// member computes the same key without an exchange. This is key derivation,
// not key agreement: it shields stored bodies from casual inspection and
// nothing more.

// DeriveDirectKey returns the key of a two-party conversation. The pair is
// sorted first, so both orderings yield the same key.
func DeriveDirectKey(userA, userB, pepper string) []byte {
	first, second := userA, userB
	if second < first {
		first, second = second, first
	}

	return deriveKey(fmt.Sprintf("direct:%s:%s", first, second), pepper)
}

// DeriveGroupKey returns the shared key of a group conversation.
func DeriveGroupKey(groupID, pepper string) []byte {
	return deriveKey("group:"+groupID, pepper)
}

// DeriveLegacyPairKey is the retired unsorted two-identifier scheme. It is
// only used on the decrypt side, to open rows written before the sorted
// scheme landed.
func DeriveLegacyPairKey(first, second, pepper string) []byte {
	return deriveKey(fmt.Sprintf("%s_%s", first, second), pepper)
}

// DeriveLegacyKey is the retired single-identifier scheme, the oldest of all.
func DeriveLegacyKey(id, pepper string) []byte {
	return deriveKey(id, pepper)
}

func deriveKey(material, pepper string) []byte {
	sum := sha256.Sum256([]byte(material + pepper))
	return sum[:]
}

// EncryptEnvelope seals plaintext with AES-256-GCM under a fresh random
// nonce and serializes ciphertext plus nonce into one text column value.
func EncryptEnvelope(plaintext string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext) +
		envelopeDelimiter +
		base64.StdEncoding.EncodeToString(nonce), nil
}

// DecryptEnvelope opens an envelope produced by EncryptEnvelope. It fails on
// a malformed envelope or a key the envelope was not sealed under.
func DecryptEnvelope(envelope string, key []byte) (string, error) {
	rawCiphertext, rawNonce, found := strings.Cut(envelope, envelopeDelimiter)
	if !found {
		return "", errors.New("malformed envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(rawCiphertext)
	if err != nil {
		return "", err
	}

	nonce, err := base64.StdEncoding.DecodeString(rawNonce)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	if len(nonce) != gcm.NonceSize() {
		return "", errors.New("invalid nonce size")
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// DecryptWithFallback walks the key candidates in order and substitutes the
// placeholder when none opens the envelope. It never returns an error.
func DecryptWithFallback(envelope string, keys ...[]byte) string {
	for _, key := range keys {
		if plaintext, err := DecryptEnvelope(envelope, key); err == nil {
			return plaintext
		}
	}

	return DecryptPlaceholder
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
