// Package engine compiles RPA sign descriptions into structured parking
// rules.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/normalize"
	"github.com/muhamm-ad/rpasign/internal/pattern"
)

// FragmentPolicy decides what a bad fragment does to its description.
type FragmentPolicy string

const (
	// FragmentPolicySkip records the failure and keeps compiling siblings.
	FragmentPolicySkip FragmentPolicy = "skip"
	// FragmentPolicyAbort fails the whole description.
	FragmentPolicyAbort FragmentPolicy = "abort"
)

// ParseFragmentPolicy validates a policy name. Empty selects skip.
func ParseFragmentPolicy(s string) (FragmentPolicy, error) {
	switch p := FragmentPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FragmentPolicySkip, nil
	case FragmentPolicySkip, FragmentPolicyAbort:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown fragment policy %q", common.ErrInvalidConfig, s)
	}
}

// Config holds configuration options for the parser.
type Config struct {
	FragmentPolicy FragmentPolicy
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FragmentPolicy: FragmentPolicySkip,
	}
}

// Parser compiles raw descriptions. It keeps no state between calls and is
// safe for concurrent use.
type Parser struct {
	normalizer Normalizer
	assembler  *Assembler
	policy     FragmentPolicy
}

// New creates a parser with the built-in tables and default configuration.
func New() *Parser {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a parser with the built-in tables.
func NewWithConfig(config Config) *Parser {
	return NewWithComponents(normalize.Default(), pattern.Default(), config)
}

// NewWithComponents creates a parser from custom stages.
func NewWithComponents(normalizer Normalizer, extractor pattern.Extractor, config Config) *Parser {
	policy := config.FragmentPolicy
	if policy == "" {
		policy = FragmentPolicySkip
	}
	return &Parser{
		normalizer: normalizer,
		assembler:  NewAssembler(extractor),
		policy:     policy,
	}
}

var defaultParser = New()

// Parse compiles raw with the default parser.
func Parse(raw string) (*model.SignDesc, error) {
	return defaultParser.Parse(raw)
}

// Policy returns the fragment policy in effect.
func (p *Parser) Policy() FragmentPolicy {
	return p.policy
}

// Parse normalizes raw and assembles one rule per fragment, in order. Under
// the skip policy failed fragments are listed in SignDesc.Failures; the
// description only fails when no fragment compiles.
func (p *Parser) Parse(raw string) (*model.SignDesc, error) {
	cleaned, err := p.normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize description: %w", err)
	}

	var fragments []string
	for _, frag := range strings.Split(cleaned, normalize.RuleSeparator) {
		if frag = strings.TrimSpace(frag); frag != "" {
			fragments = append(fragments, frag)
		}
	}
	if len(fragments) == 0 {
		return nil, common.NewFormatError(common.KindDescription, raw)
	}

	desc := &model.SignDesc{
		RawText:     raw,
		CleanedText: cleaned,
	}

	var firstErr error
	for i, frag := range fragments {
		rule, err := p.assembler.Assemble(frag)
		if err == nil {
			desc.Rules = append(desc.Rules, rule)
			continue
		}

		fragErr := &FragmentError{Index: i, Fragment: frag, Err: err}
		if p.policy == FragmentPolicyAbort {
			return nil, fragErr
		}

		slog.Debug("Skipping fragment", "index", i, "fragment", frag, "error", err)
		desc.Failures = append(desc.Failures, model.FragmentFailure{
			Index:    i,
			Fragment: frag,
			Reason:   err.Error(),
		})
		if firstErr == nil {
			firstErr = fragErr
		}
	}

	if len(desc.Rules) == 0 {
		return nil, firstErr
	}
	return desc, nil
}
