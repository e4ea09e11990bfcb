package utils

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrToInt(t *testing.T) {
	require.Equal(t, 42, StrToInt("42"))
	require.Equal(t, -7, StrToInt("-7"))
	require.Equal(t, 0, StrToInt("x"))
}

func TestStrToFloats(t *testing.T) {
	rets, ok := StrToFloats([]string{"1.5", "-2", "3e2"})
	require.True(t, ok)
	require.Equal(t, []float64{1.5, -2, 300}, rets)

	_, ok = StrToFloats([]string{"1.5", "abc"})
	require.False(t, ok)
}

func TestB2SRoundTrip(t *testing.T) {
	s := "hello 世界"
	require.Equal(t, s, B2S(S2B(s)))
	require.Equal(t, []byte(s), S2B(s))
}

func TestLatin1ToUtf8(t *testing.T) {
	// ISO 8859-1的0xE9即é
	raw := []byte{'m', 0xE9, 't', 'r', 'o'}
	got, err := io.ReadAll(Latin1ToUtf8(strings.NewReader(string(raw))))
	require.NoError(t, err)
	require.Equal(t, "métro", string(got))
}

func TestLatin1StrToUtf8(t *testing.T) {
	got, err := Latin1StrToUtf8("caf\xe9")
	require.NoError(t, err)
	require.Equal(t, "café", got)
}
