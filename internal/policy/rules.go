// Package policy turns a consistency report into an overall score and an
// ACCEPT/REVISE/REJECT decision. Rules are configuration loaded from a
// Store and may change between calls.
package policy

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownRule is returned when a patch names a field Rules lacks.
var ErrUnknownRule = errors.New("unknown rule field")

// ErrInvalidRule is returned when a patched value cannot be used.
var ErrInvalidRule = errors.New("invalid rule value")

// Rules are the scoring weights, decision thresholds and guardrail caps.
type Rules struct {
	WCoverage     float64 `yaml:"w_coverage" json:"w_coverage"`
	WCorrectness  float64 `yaml:"w_correctness" json:"w_correctness"`
	WCompleteness float64 `yaml:"w_completeness" json:"w_completeness"`

	// Overall scores are in [0,100].
	AcceptThreshold float64 `yaml:"accept_threshold" json:"accept_threshold"`
	ReviseThreshold float64 `yaml:"revise_threshold" json:"revise_threshold"`

	MaxMissingInRef   int `yaml:"max_missing_in_ref" json:"max_missing_in_ref"`
	MaxIncompleteRefs int `yaml:"max_incomplete_refs" json:"max_incomplete_refs"`
}

// DefaultRules returns the stock rules.
func DefaultRules() Rules {
	return Rules{
		WCoverage:         0.35,
		WCorrectness:      0.40,
		WCompleteness:     0.25,
		AcceptThreshold:   85,
		ReviseThreshold:   60,
		MaxMissingInRef:   0,
		MaxIncompleteRefs: 3,
	}
}

// field setters keyed by the yaml/json field name.
var setters = map[string]func(r *Rules, v string) error{
	"w_coverage":          floatSetter(func(r *Rules) *float64 { return &r.WCoverage }),
	"w_correctness":       floatSetter(func(r *Rules) *float64 { return &r.WCorrectness }),
	"w_completeness":      floatSetter(func(r *Rules) *float64 { return &r.WCompleteness }),
	"accept_threshold":    floatSetter(func(r *Rules) *float64 { return &r.AcceptThreshold }),
	"revise_threshold":    floatSetter(func(r *Rules) *float64 { return &r.ReviseThreshold }),
	"max_missing_in_ref":  intSetter(func(r *Rules) *int { return &r.MaxMissingInRef }),
	"max_incomplete_refs": intSetter(func(r *Rules) *int { return &r.MaxIncompleteRefs }),
}

func floatSetter(field func(*Rules) *float64) func(*Rules, string) error {
	return func(r *Rules, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidRule, v)
		}
		*field(r) = f
		return nil
	}
}

func intSetter(field func(*Rules) *int) func(*Rules, string) error {
	return func(r *Rules, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer", ErrInvalidRule, v)
		}
		if n < 0 {
			return fmt.Errorf("%w: %d is negative", ErrInvalidRule, n)
		}
		*field(r) = n
		return nil
	}
}

// FieldNames returns the settable rule names in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set assigns one field by name.
func (r *Rules) Set(name, value string) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	if err := set(r, value); err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	return nil
}

// Apply returns a copy of r with every patch field set. The patch is
// applied in sorted key order and nothing is changed on error.
func (r Rules) Apply(patch map[string]string) (Rules, error) {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := r
	for _, k := range keys {
		if err := out.Set(k, patch[k]); err != nil {
			return r, err
		}
	}
	return out, nil
}

// ParsePatch parses "key=value" arguments.
func ParsePatch(args []string) (map[string]string, error) {
	patch := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidRule, arg)
		}
		patch[k] = v
	}
	return patch, nil
}
