package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticSaltDigestKnownValues(t *testing.T) {
	h := NewStaticSaltHasher()

	// MD5("static_salt_2024" + password). Stored digests depend on these
	// exact values.
	assert.Equal(t, "4558b7f997b17883422186ed4de1ef28", h.Digest("pw123456"))
	assert.Equal(t, "19088faf6ccfe23b00484c0dc2e75349", h.Digest("password123"))
}

func TestDigestIsDeterministic(t *testing.T) {
	for _, h := range []Hasher{NewStaticSaltHasher(), NewArgon2Hasher("static_salt_2024")} {
		first := h.Digest("hunter2!")
		assert.Equal(t, first, h.Digest("hunter2!"))
		assert.NotEqual(t, first, h.Digest("hunter3!"))
	}
}

func TestNewHasherSelection(t *testing.T) {
	assert.IsType(t, &StaticSaltHasher{}, NewHasher("md5"))
	assert.IsType(t, &StaticSaltHasher{}, NewHasher(""))
	assert.IsType(t, &Argon2Hasher{}, NewHasher("argon2"))
}
