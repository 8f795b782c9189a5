package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	xrand "golang.org/x/exp/rand"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// PrefixLen is the length of the public part of an API key.
const PrefixLen = 8

var rng = xrand.New(xrand.NewSource(uint64(time.Now().UnixNano())))

// RandomInt generates a random integer between min and max
func RandomInt(min, max int) int {
	return min + rng.Intn(max-min+1)
}

// RandomFloat generates a random float in [min, max)
func RandomFloat(min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[rng.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// GenerateKey returns an API key of the form prefix.token. The prefix identifies the
// key in logs and rate limiting; only the token is secret.
func GenerateKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return fmt.Sprintf("%s.%s", RandomString(PrefixLen), hex.EncodeToString(b)), nil
}

// KeyPrefix returns the public part of key, or "" when key is not of the form prefix.token.
func KeyPrefix(key string) string {
	prefix, _, ok := strings.Cut(key, ".")
	if !ok || len(prefix) != PrefixLen {
		return ""
	}
	return prefix
}
