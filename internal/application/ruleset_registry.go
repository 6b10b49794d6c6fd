package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/monsieurgui/climbinsight/internal/domain"
	"github.com/monsieurgui/climbinsight/internal/ports"
)

// RulesetRegistry loads, validates, compiles, and caches federation
// ruleset documents. Compiled rulesets are immutable and shared: the
// registry caches by SHA-256 of the normalized document so reloading
// an identical configuration never recompiles, and indexes by
// (name, version) for lookup.
//
// The registry is safe for concurrent use; duplicate concurrent loads
// of the same document are collapsed with singleflight.
type RulesetRegistry struct {
	// validator performs struct tag validation for ruleset documents.
	validator *validator.Validate
	// byHash caches compiled rulesets indexed by document hash.
	byHash map[string]*domain.Ruleset
	// byID indexes compiled rulesets by "name@version".
	byID map[string]*domain.Ruleset
	// mu protects both maps.
	mu sync.RWMutex
	// sf collapses concurrent compilations of the same document.
	sf singleflight.Group
}

// NewRulesetRegistry creates an empty registry with the custom
// validators registered. It returns an error if validator
// registration fails.
func NewRulesetRegistry() (*RulesetRegistry, error) {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return &RulesetRegistry{
		validator: v,
		byHash:    make(map[string]*domain.Ruleset),
		byID:      make(map[string]*domain.Ruleset),
	}, nil
}

// Load parses, validates, compiles, and caches a ruleset document.
// The returned ruleset is shared and must not be mutated. Validation
// failures are reported as a *domain.ValidationError carrying every
// violation.
func (r *RulesetRegistry) Load(ctx context.Context, data []byte) (*domain.Ruleset, error) {
	config, err := parseRulesetYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	hash, err := configHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := r.sf.Do(hash, func() (any, error) {
		if rs, ok := r.cached(hash); ok {
			return rs, nil
		}

		if err := r.validateConfig(config); err != nil {
			return nil, err
		}

		rs := compileRuleset(config)
		r.store(hash, rs)
		return rs, nil
	})
	if err != nil {
		return nil, err
	}

	rs, ok := v.(*domain.Ruleset)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected cache entry type %T", ports.ErrCacheCorrupted, v)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

// LoadFromReader loads a ruleset document from an io.Reader.
func (r *RulesetRegistry) LoadFromReader(ctx context.Context, reader io.Reader) (*domain.Ruleset, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset document: %w", err)
	}
	return r.Load(ctx, data)
}

// LoadFromFile loads a ruleset document from a file path.
func (r *RulesetRegistry) LoadFromFile(ctx context.Context, path string) (*domain.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file %s: %w", path, err)
	}
	return r.Load(ctx, data)
}

// Get returns the loaded ruleset with the given identity, or an error
// wrapping ports.ErrRulesetNotFound.
func (r *RulesetRegistry) Get(name, version string) (*domain.Ruleset, error) {
	id := name + "@" + version
	r.mu.RLock()
	rs, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ports.NewRegistryError("ruleset", id, ports.ErrRulesetNotFound)
	}
	return rs, nil
}

// List returns the identities of every loaded ruleset.
func (r *RulesetRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	return ids
}

func (r *RulesetRegistry) cached(hash string) (*domain.Ruleset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.byHash[hash]
	return rs, ok
}

func (r *RulesetRegistry) store(hash string, rs *domain.Ruleset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHash[hash] = rs
	r.byID[rs.ID()] = rs
}

// validateConfig runs struct tag validation followed by the semantic
// rules, merging both into one accumulated ValidationError.
func (r *RulesetRegistry) validateConfig(config *RulesetConfig) error {
	verr := domain.NewValidationError(config.Name + "@" + config.Version)

	if err := r.validator.Struct(config); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				verr.AddError(fmt.Sprintf("%s: failed %q validation", fe.Namespace(), fe.Tag()))
			}
		} else {
			verr.AddError(err.Error())
		}
	}

	if err := validateSemantics(config); err != nil {
		var semErr *domain.ValidationError
		if errors.As(err, &semErr) {
			verr.Errors = append(verr.Errors, semErr.Errors...)
		} else {
			verr.AddError(err.Error())
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// parseRulesetYAML decodes a document in strict mode so unknown keys
// are rejected rather than silently dropped.
func parseRulesetYAML(data []byte) (*RulesetConfig, error) {
	var config RulesetConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// configHash hashes the normalized (re-marshaled) configuration so
// formatting differences between documents do not defeat the cache.
func configHash(config *RulesetConfig) (string, error) {
	normalized, err := yaml.Marshal(config)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:]), nil
}
