// Package covariance: estimator configuration, validated against a fixed
// per-estimator schema at construction (whitelist membership plus value
// typing). Mirrors the weights package conventions.

package covariance

import "fmt"

// Config carries per-estimator options. Recognized keys:
//
//	homoskedastic: {}
//	heteroskedastic: {}
//	kernel: {"kernel": "bartlett", "bw": nil}
//	one-way: {"clusters": nil}
//	gmm: {"center": false}
//
// A nil "bw" means nobs−2; a nil "clusters" means one cluster per
// observation. "clusters" accepts []int; "bw" accepts int.
type Config map[string]any

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
