package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// UUID produces random (v4) UUID strings.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Participant derives a short participant code such as "P-3f9a1c2b".
func Participant(gen Generator) string {
	raw := gen.New()
	if len(raw) > 8 {
		raw = raw[:8]
	}
	return "P-" + raw
}
