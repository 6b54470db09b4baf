// Package providers specifies the interface the search core depends on for
// the dictionary-provider collaborator: an HTTP/scraping adapter that
// fetches a definition for one word at a time. Provider
// internals (scraping, rate limiting, provider-specific parsing) are out of
// the core's scope; only the contract and an in-memory stub live here.
package providers

import (
	"context"

	"github.com/standardbeagle/lexicore/internal/errs"
)

// Definition is the payload a Provider returns for one word. The core
// consumes only the Word field (to build a vocabulary); everything else
// passes through to the AI synthesis collaborator untouched.
type Definition struct {
	Word    string
	Source  string
	Senses  []string
	Example string
}

// Provider fetches a definition for exactly one word. Real implementations
// (out of scope here) wrap a specific dictionary site or API; Fetch must
// return errs.NotFoundError when the provider has no entry for word, so
// callers can distinguish "no definition" from a transport failure.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, word string) (*Definition, error)
}

// Stub is a no-op Provider satisfying the interface so the module compiles
// and exercises the REST surface end to end without a real scraping
// backend. It always reports NotFound, the same as a live provider that
// has no entry for the requested word.
type Stub struct {
	Named string
}

// NewStub creates a Stub provider identifying itself as name.
func NewStub(name string) *Stub { return &Stub{Named: name} }

func (s *Stub) Name() string { return s.Named }

func (s *Stub) Fetch(ctx context.Context, word string) (*Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, errs.NewNotFound("definition", word)
}
