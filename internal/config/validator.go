package config

import (
	"runtime"

	"github.com/standardbeagle/lexicore/internal/errs"
)

// Validator validates configuration and applies smart defaults.
type Validator struct{}

// NewValidator creates a configuration validator.
func NewValidator() *Validator { return &Validator{} }

// ValidateAndSetDefaults validates cfg section by section and fills in any
// zero-valued field with a runtime-derived smart default.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateServer(&cfg.Server); err != nil {
		return errs.NewValidation("server", err.Error())
	}
	if err := v.validateSemantic(&cfg.Semantic); err != nil {
		return errs.NewValidation("semantic", err.Error())
	}
	if err := v.validateSearch(&cfg.Search); err != nil {
		return errs.NewValidation("search", err.Error())
	}
	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateServer(s *Server) error {
	if s.Addr == "" {
		return errField("server.addr cannot be empty")
	}
	return nil
}

func (v *Validator) validateSemantic(s *Semantic) error {
	if s.EmbedDim < 0 {
		return errField("semantic.embed_dim cannot be negative")
	}
	if s.WorkerShards < 0 {
		return errField("semantic.worker_shards cannot be negative")
	}
	return nil
}

func (v *Validator) validateSearch(s *Search) error {
	if s.DefaultMaxResults < 0 {
		return errField("search.default_max_results cannot be negative")
	}
	if s.DefaultMaxResults > 100 {
		return errField("search.default_max_results cannot exceed 100")
	}
	if s.DefaultMinScore < 0 || s.DefaultMinScore > 1 {
		return errField("search.default_min_score must be in [0,1]")
	}
	return nil
}

// setSmartDefaults fills in zero-valued fields a bare Config{} would
// otherwise leave unset, deriving the worker count from the CPU count.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Semantic.WorkerShards == 0 {
		cfg.Semantic.WorkerShards = max(1, runtime.NumCPU()-1)
	}
	if cfg.Semantic.EmbedDim == 0 {
		cfg.Semantic.EmbedDim = 8
	}
	if cfg.Search.DefaultMaxResults == 0 {
		cfg.Search.DefaultMaxResults = 20
	}
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func errField(msg string) error { return fieldError(msg) }

// Validate is a convenience wrapper around Validator.ValidateAndSetDefaults.
func Validate(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
