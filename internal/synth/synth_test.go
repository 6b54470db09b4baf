package synth

import (
	"context"
	"testing"

	"github.com/standardbeagle/lexicore/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatStub_EmptyInputIsValidationError(t *testing.T) {
	_, err := ConcatStub{}.Synthesize(context.Background(), nil)
	require.Error(t, err)
}

func TestConcatStub_DedupesSensesAcrossDefinitions(t *testing.T) {
	defs := []*providers.Definition{
		{Word: "apple", Senses: []string{"A fruit", "A tech company"}},
		{Word: "apple", Senses: []string{"a fruit", "A tree"}},
	}

	out, err := ConcatStub{}.Synthesize(context.Background(), defs)
	require.NoError(t, err)
	assert.Equal(t, "apple", out.Word)
	assert.Equal(t, "synthesized", out.Source)
	assert.Equal(t, []string{"A fruit", "A tech company", "A tree"}, out.Senses)
}

func TestConcatStub_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ConcatStub{}.Synthesize(ctx, []*providers.Definition{{Word: "apple"}})
	require.ErrorIs(t, err, context.Canceled)
}
