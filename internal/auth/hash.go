package auth

import (
	"crypto/md5"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Hasher is a deterministic one-way transform from plaintext password to a
// stored digest. Determinism is part of the contract: the directory compares
// digests with plain equality, so the same plaintext must always produce the
// same digest. Constant-time comparison is a security follow-up, not current
// behavior.
type Hasher interface {
	Digest(plaintext string) string
}

// StaticSaltHasher is the baseline digest: MD5 over a fixed shared salt plus
// the plaintext. Existing stored digests depend on this scheme, so it stays
// the default; Argon2Hasher is the hardened alternative.
type StaticSaltHasher struct {
	Salt string
}

// NewStaticSaltHasher creates the baseline hasher with the fixed salt
func NewStaticSaltHasher() *StaticSaltHasher {
	return &StaticSaltHasher{Salt: "static_salt_2024"}
}

// Digest returns the hex MD5 of salt+plaintext
func (h *StaticSaltHasher) Digest(plaintext string) string {
	sum := md5.Sum([]byte(h.Salt + plaintext))
	return hex.EncodeToString(sum[:])
}

// Argon2Hasher derives digests with argon2id. The salt is still shared
// application-wide so the digest stays a pure function of the plaintext;
// per-account random salts would need a different verification scheme than
// the directory's equality check.
type Argon2Hasher struct {
	Salt    []byte
	Time    uint32
	Memory  uint32
	Threads uint8
}

// NewArgon2Hasher creates an argon2id hasher with moderate parameters
func NewArgon2Hasher(salt string) *Argon2Hasher {
	return &Argon2Hasher{
		Salt:    []byte(salt),
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
	}
}

// Digest returns the hex argon2id key for the plaintext
func (h *Argon2Hasher) Digest(plaintext string) string {
	key := argon2.IDKey([]byte(plaintext), h.Salt, h.Time, h.Memory, h.Threads, 32)
	return hex.EncodeToString(key)
}

// NewHasher selects a hasher by configured kind; anything other than
// "argon2" falls back to the baseline static-salt MD5.
func NewHasher(kind string) Hasher {
	if kind == "argon2" {
		return NewArgon2Hasher("static_salt_2024")
	}
	return NewStaticSaltHasher()
}
