package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs, e.g. to correlate the log lines of one
// pipeline run.
type Generator interface {
	NewID() (string, error)
}

const defaultSize = 8

// RandomGenerator returns prefix followed by size random bytes in hex.
type RandomGenerator struct {
	prefix string
	size   int
}

func NewRandomGenerator(prefix string, size int) *RandomGenerator {
	if size <= 0 {
		size = defaultSize
	}
	return &RandomGenerator{prefix: prefix, size: size}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return g.prefix + hex.EncodeToString(buf), nil
}

// Static always returns itself; handy in tests.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
