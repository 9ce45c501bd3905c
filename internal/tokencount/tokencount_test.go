package tokencount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnknownEncodingReturnsError(t *testing.T) {
	_, err := New("not-a-real-encoding")
	require.Error(t, err)
}

func TestCounter_CountMatchesEncodeLength(t *testing.T) {
	c, err := New(DefaultEncoding)
	require.NoError(t, err)

	text := "The quick brown fox jumps over the lazy dog."
	ids := c.Encode(text)
	assert.Equal(t, len(ids), c.Count(text))
	assert.Greater(t, c.Count(text), 0)
}

func TestCounter_EmptyStringHasZeroTokens(t *testing.T) {
	c, err := New(DefaultEncoding)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Count(""))
}

func TestCounter_DecodeRoundTrips(t *testing.T) {
	c, err := New(DefaultEncoding)
	require.NoError(t, err)

	text := "roundtrip test 123"
	ids := c.Encode(text)
	assert.Equal(t, text, c.Decode(ids))
}

func TestCounter_CountIsCached(t *testing.T) {
	c, err := New(DefaultEncoding)
	require.NoError(t, err)

	text := "cache me if you can"
	first := c.Count(text)
	second := c.Count(text)
	assert.Equal(t, first, second)
}

func TestDefault_ReturnsSingletonAcrossCalls(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Equal(t, a.Count("hello world"), b.Count("hello world"))
}
