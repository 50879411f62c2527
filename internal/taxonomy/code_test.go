package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diarium/diarium/internal/ledger"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Code
	}{
		{"1.0.0.000", Code{1, 0, 0, 0}},
		{"1.1.3.002", Code{1, 1, 3, 2}},
		{"12.4.7.105", Code{12, 4, 7, 105}},
		{" 2.1.1.001 ", Code{2, 1, 1, 1}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		"", "1", "1.2.3", "1.2.3.4.5", "a.b.c.d", "1.2.x.4", "1.-2.3.4", "1..3.4",
	} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ledger.ErrMalformedCode, "Parse(%q)", in)
	}
}

func TestStringCanonical(t *testing.T) {
	tests := []struct {
		in   Code
		want string
	}{
		{Code{1, 0, 0, 0}, "1.0.0.000"},
		{Code{1, 1, 3, 2}, "1.1.3.002"},
		{Code{5, 2, 1, 123}, "5.2.1.123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
}

func TestSharesPrefix(t *testing.T) {
	parent := Code{1, 2, 0, 0}
	assert.True(t, SharesPrefix(parent, Code{1, 2, 3, 4}, LevelCategory))
	assert.True(t, SharesPrefix(parent, Code{1, 9, 9, 9}, LevelType))
	assert.False(t, SharesPrefix(parent, Code{1, 3, 0, 0}, LevelCategory))
	assert.False(t, SharesPrefix(parent, Code{2, 2, 0, 0}, LevelType))
}

func TestWithPrefix(t *testing.T) {
	// The cascade primitive: 1.1.1.001 renumbered under type 7 keeps
	// every trailing segment.
	c := Code{1, 1, 1, 1}
	got := c.WithPrefix(Code{7, 0, 0, 0}, LevelType)
	assert.Equal(t, "7.1.1.001", got.String())

	got = c.WithPrefix(Code{7, 4, 0, 0}, LevelCategory)
	assert.Equal(t, "7.4.1.001", got.String())
}

func TestForLevel(t *testing.T) {
	assert.Equal(t, "3.0.0.000", ForLevel(LevelType, 3).String())
	assert.Equal(t, "3.2.0.000", ForLevel(LevelCategory, 3, 2).String())
}
