// Package cryptox implements the password hashing used for stored user
// credentials: argon2id with a per-password random salt, encoded in the
// common "$argon2id$v=19$m=...,t=...,p=...$salt$hash" form.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned when an encoded hash cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

const hashPrefix = "$argon2id$"

// Params are the argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams matches the key derivation cost used for master keys.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

// PasswordHasher hashes new passwords and verifies candidates against
// stored values.
type PasswordHasher struct {
	params         Params
	allowPlaintext bool
}

// NewPasswordHasher returns a hasher using p. With allowPlaintext set, stored
// values that are not argon2id hashes are compared as plaintext secrets,
// which is how rows written by the earlier deployment are stored.
func NewPasswordHasher(p Params, allowPlaintext bool) *PasswordHasher {
	return &PasswordHasher{params: p, allowPlaintext: allowPlaintext}
}

// DeriveKey runs argon2id over password and salt.
func DeriveKey(password, salt []byte, p Params) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// Hash returns the encoded argon2id hash of password with a fresh salt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	salt := common.GenerateRandByteArray(int(h.params.SaltLen))
	key := DeriveKey([]byte(password), salt, h.params)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		hashPrefix, argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches the stored value. Comparison is
// constant-time in every branch.
func (h *PasswordHasher) Verify(stored, password string) bool {
	if !strings.HasPrefix(stored, hashPrefix) {
		if !h.allowPlaintext {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	}

	p, salt, key, err := decodeHash(stored)
	if err != nil {
		return false
	}
	candidate := DeriveKey([]byte(password), salt, p)
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// IsHash reports whether stored looks like a value produced by Hash.
func IsHash(stored string) bool {
	_, _, _, err := decodeHash(stored)
	return err == nil
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, nil, ErrMalformedHash
	}
	if p.Time == 0 || p.Threads == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}
