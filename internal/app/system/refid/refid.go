// internal/app/system/refid/refid.go
//
// Package refid generates survey REF identifiers of the form
//
//	PREFIX1/PREFIX2/UNIQUE/VERSION     e.g. KIT/KS/40A1932/A
//
// UNIQUE is six random digits with one random letter inserted at a random
// position. VERSION is a bijective base-26 letter counter (A..Z, AA, AB, ...).
package refid

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

const (
	// SurveyPrefix is the second REF segment for kitchen surveys.
	SurveyPrefix = "KS"

	// DefaultPrefix is used when no site name is available.
	DefaultPrefix = "GEN"

	// DefaultMaxAttempts bounds collision retries.
	DefaultMaxAttempts = 5

	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	// ErrInvalid is returned by Parse for malformed identifiers.
	ErrInvalid = errors.New("invalid REF identifier")

	// ErrExhausted is returned when every attempt produced an id that is
	// already taken.
	ErrExhausted = errors.New("could not generate a unique REF identifier")
)

// Ref is a parsed REF identifier.
type Ref struct {
	Prefix1 string
	Prefix2 string
	Unique  string
	Version string
}

// String formats r as PREFIX1/PREFIX2/UNIQUE/VERSION.
func (r Ref) String() string {
	return strings.Join([]string{r.Prefix1, r.Prefix2, r.Unique, r.Version}, "/")
}

// Base returns the identifier without its version segment.
func (r Ref) Base() string {
	return strings.Join([]string{r.Prefix1, r.Prefix2, r.Unique}, "/")
}

// Next returns r with its version incremented.
func (r Ref) Next() Ref {
	r.Version = NextVersion(r.Version)
	return r
}

// Parse splits s into its four segments.
func Parse(s string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 4 {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	for _, p := range parts {
		if p == "" {
			return Ref{}, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
	}
	return Ref{Prefix1: parts[0], Prefix2: parts[1], Unique: parts[2], Version: parts[3]}, nil
}

// NextVersion increments a base-26 letter counter:
// "" -> "A", "Z" -> "AA", "AZ" -> "BA", "ZZ" -> "AAA".
// Anything that is not uppercase A-Z restarts at "A".
func NextVersion(v string) string {
	if v == "" {
		return "A"
	}
	b := []byte(v)
	for _, c := range b {
		if c < 'A' || c > 'Z' {
			return "A"
		}
	}
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 'Z' {
			b[i]++
			return string(b)
		}
		b[i] = 'A'
	}
	return "A" + string(b)
}

// SitePrefix derives PREFIX1 from a site name: the first three letters or
// digits, uppercased.
func SitePrefix(siteName string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(siteName) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		sb.WriteRune(r)
		if sb.Len() == 3 {
			break
		}
	}
	if sb.Len() == 0 {
		return DefaultPrefix
	}
	return sb.String()
}

// Rand is the randomness source used for UNIQUE segments.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Unique returns six random digits with one random letter inserted at a
// random position.
func Unique(rnd Rand) string {
	if rnd == nil {
		rnd = globalRand{}
	}
	digits := make([]byte, 6)
	for i := range digits {
		digits[i] = byte('0' + rnd.IntN(10))
	}
	letter := letters[rnd.IntN(len(letters))]
	pos := rnd.IntN(len(digits) + 1)

	out := make([]byte, 0, 7)
	out = append(out, digits[:pos]...)
	out = append(out, letter)
	out = append(out, digits[pos:]...)
	return string(out)
}

// ExistsFunc reports whether a REF identifier is already in use.
type ExistsFunc func(ctx context.Context, ref string) (bool, error)

// Generator produces REF identifiers checked against an ExistsFunc.
type Generator struct {
	Exists      ExistsFunc
	MaxAttempts int
	Rand        Rand
}

func (g Generator) attempts() int {
	if g.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return g.MaxAttempts
}

// New returns a fresh version-A identifier with an unused UNIQUE segment.
func (g Generator) New(ctx context.Context, prefix1, prefix2 string) (Ref, error) {
	for i := 0; i < g.attempts(); i++ {
		ref := Ref{Prefix1: prefix1, Prefix2: prefix2, Unique: Unique(g.Rand), Version: "A"}
		taken, err := g.Exists(ctx, ref.String())
		if err != nil {
			return Ref{}, err
		}
		if !taken {
			return ref, nil
		}
	}
	return Ref{}, ErrExhausted
}

// NextFree walks forward from base.Next() until it finds an unused version,
// checking at most MaxAttempts candidates.
func (g Generator) NextFree(ctx context.Context, base Ref) (Ref, error) {
	ref := base
	for i := 0; i < g.attempts(); i++ {
		ref = ref.Next()
		taken, err := g.Exists(ctx, ref.String())
		if err != nil {
			return Ref{}, err
		}
		if !taken {
			return ref, nil
		}
	}
	return Ref{}, ErrExhausted
}
