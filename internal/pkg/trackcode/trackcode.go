// Package trackcode produces the short codes buyers use to look up orders.
package trackcode

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	// Alphabet is the set of characters a generated code is drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultLength gives 36^10 possible codes.
	DefaultLength = 10
)

// Generator draws uniformly random codes from Alphabet.
type Generator struct {
	length int
	random io.Reader
}

// New returns a Generator backed by crypto/rand.
func New(length int) *Generator {
	return NewWithReader(length, rand.Reader)
}

// NewWithReader returns a Generator that reads randomness from r.
func NewWithReader(length int, r io.Reader) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length, random: r}
}

// Generate returns a new upper-case code.
func (g *Generator) Generate() (string, error) {
	// Bytes at or above limit are discarded so every symbol is equally likely.
	const limit = 256 - 256%len(Alphabet)

	var (
		out = make([]byte, 0, g.length)
		buf = make([]byte, g.length)
	)
	for len(out) < g.length {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == g.length {
				break
			}
		}
	}
	return string(out), nil
}

// Normalize trims surrounding whitespace and upper-cases code so lookups are
// case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
