package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Basic(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Apple", "apple"},
		{"  Hello   World  ", "hello world"},
		{"café", "cafe"},
		{"don't", "don't"},
		{"co-operate", "co-operate"},
		{"Hello, World!", "hello world"},
		{"", ""},
		{"   ", ""},
		{"naïve RÉSUMÉ", "naive resume"},
		{"Dvořák", "dvorak"},
		{"Việt Nam", "viet nam"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input %q", c.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Apple", "  Hello   World  ", "café", "don't", "", "Bon Vivant!!"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		require.Equal(t, once, twice, "normalize not idempotent for %q", in)
	}
}

func TestNormalize_PreservesPhraseVsWord(t *testing.T) {
	word := Normalize("apple")
	phrase := Normalize("bon vivant")
	assert.NotContains(t, word, " ")
	assert.Contains(t, phrase, " ")
}

func TestSignature_AnagramInvariant(t *testing.T) {
	assert.Equal(t, Signature("listen"), Signature("silent"))
	assert.Equal(t, Signature("apple"), Signature("elppa"))
}

func TestSignature_IgnoresSpaces(t *testing.T) {
	assert.Equal(t, Signature("bon vivant"), Signature("vivantbon"))
}

func TestBatchNormalize_PreservesOrder(t *testing.T) {
	in := []string{"Banana", "Apple", "Cherry", "  Date "}
	out := BatchNormalize(in)
	require.Len(t, out, len(in))
	for i, s := range in {
		assert.Equal(t, Normalize(s), out[i])
	}
}

func TestBatchNormalize_Empty(t *testing.T) {
	assert.Empty(t, BatchNormalize(nil))
}
