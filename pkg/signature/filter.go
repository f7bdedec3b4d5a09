package signature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sigil-dev/sigil/pkg/types"
)

// FilterConfig specifies include and exclude patterns for signature
// filtering.
type FilterConfig struct {
	Include []string // Regex patterns - only matching signatures included
	Exclude []string // Regex patterns - matching signatures excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude patterns to signature IDs. Include
// runs first, then exclude; an empty include list means "include all".
// Returns an error if any pattern is invalid regex.
func Filter(sigs []*types.Signature, config FilterConfig) ([]*types.Signature, error) {
	if len(sigs) == 0 {
		return sigs, nil
	}

	includeRegexes, err := compilePatterns(config.Include)
	if err != nil {
		return nil, err
	}
	excludeRegexes, err := compilePatterns(config.Exclude)
	if err != nil {
		return nil, err
	}

	filtered := sigs
	if len(includeRegexes) > 0 {
		filtered = applyInclude(filtered, includeRegexes)
	}
	if len(excludeRegexes) > 0 {
		filtered = applyExclude(filtered, excludeRegexes)
	}

	return filtered, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var regexes []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

func applyInclude(sigs []*types.Signature, regexes []*regexp.Regexp) []*types.Signature {
	result := make([]*types.Signature, 0)
	for _, sig := range sigs {
		if matchesAny(sig.ID, regexes) {
			result = append(result, sig)
		}
	}
	return result
}

func applyExclude(sigs []*types.Signature, regexes []*regexp.Regexp) []*types.Signature {
	result := make([]*types.Signature, 0)
	for _, sig := range sigs {
		if !matchesAny(sig.ID, regexes) {
			result = append(result, sig)
		}
	}
	return result
}

func matchesAny(sigID string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(sigID) {
			return true
		}
	}
	return false
}
