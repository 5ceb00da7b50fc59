// Package weights: strategy configuration. Configuration is a free-form
// key/value map validated at construction against a fixed per-strategy
// schema (the recognized option names and their default values). Unknown
// keys and wrongly typed values fail fast; WeightMatrix never re-validates.

package weights

import "fmt"

// Config carries per-strategy options. Recognized keys:
//
//	homoskedastic: {"center": false}
//	heteroskedastic: {"center": false}
//	kernel: {"kernel": "bartlett", "center": false, "bw": nil}
//	clustered: {"clusters": nil, "center": false}
//
// A nil "bw" means the strategy default (nobs−2); a nil "clusters" means
// one cluster per observation. "clusters" accepts []int; "bw" accepts int.
type Config map[string]any

// resolveConfig merges user options over the strategy defaults, rejecting
// keys outside the schema. The returned map is freshly allocated; neither
// input is mutated.
func resolveConfig(user, defaults Config) (Config, error) {
	out := make(Config, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range user {
		if _, ok := defaults[k]; !ok {
			return nil, fmt.Errorf("%q: %w", k, ErrUnknownConfigKey)
		}
		out[k] = v
	}

	return out, nil
}

// boolOption extracts a bool-valued option; nil means false.
func boolOption(cfg Config, key string) (bool, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%q: got %T, want bool: %w", key, v, ErrBadConfigValue)
	}

	return b, nil
}

// stringOption extracts a string-valued option; nil yields the fallback.
func stringOption(cfg Config, key, fallback string) (string, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q: got %T, want string: %w", key, v, ErrBadConfigValue)
	}

	return s, nil
}

// intOption extracts an int-valued option; the second return reports
// whether a value was present (nil counts as absent).
func intOption(cfg Config, key string) (int, bool, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, false, fmt.Errorf("%q: got %T, want int: %w", key, v, ErrBadConfigValue)
	}

	return n, true, nil
}

// intSliceOption extracts an []int-valued option; nil yields nil.
func intSliceOption(cfg Config, key string) ([]int, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.([]int)
	if !ok {
		return nil, fmt.Errorf("%q: got %T, want []int: %w", key, v, ErrBadConfigValue)
	}

	return s, nil
}
