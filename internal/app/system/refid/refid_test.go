package refid

import (
	"context"
	"errors"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "A"},
		{"A", "B"},
		{"Y", "Z"},
		{"Z", "AA"},
		{"AA", "AB"},
		{"AZ", "BA"},
		{"ZZ", "AAA"},
		{"ABZ", "ACA"},
		{"a", "A"},
		{"1", "A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextVersion(tt.in), "NextVersion(%q)", tt.in)
	}
}

func TestParse(t *testing.T) {
	ref, err := Parse("KIT/KS/12A3456/B")
	require.NoError(t, err)
	assert.Equal(t, Ref{Prefix1: "KIT", Prefix2: "KS", Unique: "12A3456", Version: "B"}, ref)
	assert.Equal(t, "KIT/KS/12A3456/B", ref.String())
	assert.Equal(t, "KIT/KS/12A3456", ref.Base())
	assert.Equal(t, "C", ref.Next().Version)

	for _, bad := range []string{"", "KIT/KS/1", "KIT//1/A", "A/B/C/D/E"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalid, bad)
	}
}

func TestSitePrefix(t *testing.T) {
	assert.Equal(t, "THE", SitePrefix("The Grill House"))
	assert.Equal(t, "CAF", SitePrefix("café nero"))
	assert.Equal(t, "A1B", SitePrefix("a-1 b"))
	assert.Equal(t, DefaultPrefix, SitePrefix("  ---  "))
}

type seqRand struct{ vals []int }

func (s *seqRand) IntN(n int) int {
	v := s.vals[0] % n
	s.vals = s.vals[1:]
	return v
}

func TestUnique(t *testing.T) {
	// six digits, then the letter index, then the insert position
	rnd := &seqRand{vals: []int{1, 2, 3, 4, 5, 6, 2, 3}}
	assert.Equal(t, "123C456", Unique(rnd))

	for i := 0; i < 50; i++ {
		u := Unique(nil)
		require.Len(t, u, 7)
		letters, digits := 0, 0
		for _, r := range u {
			switch {
			case unicode.IsUpper(r):
				letters++
			case unicode.IsDigit(r):
				digits++
			}
		}
		assert.Equal(t, 1, letters, u)
		assert.Equal(t, 6, digits, u)
	}
}

func TestGenerator_New(t *testing.T) {
	calls := 0
	g := Generator{Exists: func(ctx context.Context, ref string) (bool, error) {
		calls++
		return calls < 3, nil
	}}
	ref, err := g.New(context.Background(), "KIT", SurveyPrefix)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "A", ref.Version)
	assert.Equal(t, "KS", ref.Prefix2)
}

func TestGenerator_Exhausted(t *testing.T) {
	calls := 0
	g := Generator{Exists: func(ctx context.Context, ref string) (bool, error) {
		calls++
		return true, nil
	}}
	_, err := g.New(context.Background(), "KIT", SurveyPrefix)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, DefaultMaxAttempts, calls)

	_, err = g.NextFree(context.Background(), Ref{"KIT", "KS", "123A456", "A"})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGenerator_NextFree(t *testing.T) {
	taken := map[string]bool{"KIT/KS/123A456/B": true, "KIT/KS/123A456/C": true}
	g := Generator{Exists: func(ctx context.Context, ref string) (bool, error) {
		return taken[ref], nil
	}}
	ref, err := g.NextFree(context.Background(), Ref{"KIT", "KS", "123A456", "A"})
	require.NoError(t, err)
	assert.Equal(t, "KIT/KS/123A456/D", ref.String())
}

func TestGenerator_PropagatesLookupError(t *testing.T) {
	boom := errors.New("boom")
	g := Generator{Exists: func(ctx context.Context, ref string) (bool, error) { return false, boom }}
	_, err := g.New(context.Background(), "KIT", SurveyPrefix)
	assert.ErrorIs(t, err, boom)
}
