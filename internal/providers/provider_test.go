package providers

import (
	"context"
	"testing"

	"github.com/standardbeagle/lexicore/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_NameReturnsConfiguredName(t *testing.T) {
	p := NewStub("wiktionary")
	assert.Equal(t, "wiktionary", p.Name())
}

func TestStub_FetchAlwaysNotFound(t *testing.T) {
	p := NewStub("wiktionary")
	_, err := p.Fetch(context.Background(), "serendipity")
	require.Error(t, err)
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestStub_FetchRespectsCancelledContext(t *testing.T) {
	p := NewStub("wiktionary")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx, "serendipity")
	require.ErrorIs(t, err, context.Canceled)
}
