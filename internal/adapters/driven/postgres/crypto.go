package postgres

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// ivSize is the AES-GCM nonce size used as the wire IV.
	ivSize = 12

	// tagSize is the GCM authentication tag size.
	tagSize = 16

	// decryptionFailedSentinel is returned, verbatim, in place of a
	// decrypted chunk's content whenever Decrypt cannot recover
	// plaintext — wrong password or a corrupted token. This is NOT an
	// error: a wrong-password read is an expected, user-facing outcome
	// rather than a system failure, so it never propagates through
	// error-handling paths (§9).
	decryptionFailedSentinel = "Decryption Failed (Wrong Password or Corrupt Token)"
)

// Codec implements the AES-256-GCM envelope described in spec.md §6: the
// wire format is base64 of IV(12) || TAG(16) || CIPHERTEXT, and the key is
// SHA-256(password). Go's cipher.AEAD produces/expects
// ciphertext||tag (tag appended at the end); Encrypt/Decrypt transpose
// between that and the tag-before-ciphertext wire layout before
// base64-encoding/decoding it for storage in a text column.
type Codec struct{}

// NewCodec returns a Codec. It holds no state; the key is derived fresh
// per call from the caller-supplied password so that a single Codec value
// can serve every notebook's independently keyed content.
func NewCodec() *Codec {
	return &Codec{}
}

// deriveKey turns a user-supplied password into the 32-byte AES-256 key.
func deriveKey(password string) [32]byte {
	return sha256.Sum256([]byte(password))
}

// Encrypt returns the IV||TAG||CIPHERTEXT envelope for plaintext under
// password.
func (c *Codec) Encrypt(password, plaintext string) (string, error) {
	key := deriveKey(password)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", fmt.Errorf("create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create GCM: %w", err)
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	// Seal appends the tag after the ciphertext; transpose to
	// tag-before-ciphertext for the wire envelope.
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	envelope := make([]byte, 0, ivSize+tagSize+len(ciphertext))
	envelope = append(envelope, iv...)
	envelope = append(envelope, tag...)
	envelope = append(envelope, ciphertext...)

	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt recovers the plaintext for a base64-encoded IV||TAG||CIPHERTEXT
// envelope under password. On any failure (wrong password, invalid
// base64, truncated or corrupted envelope) it returns the fixed sentinel
// string instead of an error, matching spec.md §9's decision that a
// bad-password read is a normal outcome the caller displays to the user,
// not a system failure.
func (c *Codec) Decrypt(password, envelope string) string {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return decryptionFailedSentinel
	}
	if len(raw) < ivSize+tagSize {
		return decryptionFailedSentinel
	}

	iv := raw[:ivSize]
	tag := raw[ivSize : ivSize+tagSize]
	ciphertext := raw[ivSize+tagSize:]

	key := deriveKey(password)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return decryptionFailedSentinel
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return decryptionFailedSentinel
	}

	// Open expects ciphertext||tag; transpose back from the wire's
	// tag-before-ciphertext layout.
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return decryptionFailedSentinel
	}
	return string(plaintext)
}
