package chore

import (
	"encoding/json"
	"fmt"
	"os"
)

// Rules maps a category to the display names allowed to take its chores.
// A category without an entry is unrestricted. The table is domain
// configuration loaded from a file, never compiled in.
type Rules map[string][]string

// Allowed returns the allow-list for a category and whether the category is
// restricted at all.
func (r Rules) Allowed(category string) ([]string, bool) {
	if r == nil {
		return nil, false
	}
	allowed, ok := r[category]
	if !ok || len(allowed) == 0 {
		return nil, false
	}
	return allowed, true
}

func (r Rules) Allows(category, displayName string) bool {
	allowed, restricted := r.Allowed(category)
	if !restricted {
		return true
	}
	for _, name := range allowed {
		if name == displayName {
			return true
		}
	}
	return false
}

// LoadRules reads the eligibility table from a JSON file shaped
// {"Bathroom 1": ["Xander", "Spencer"], ...}. An empty path means no
// restrictions.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return Rules{}, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rules Rules
	if err := json.Unmarshal(contents, &rules); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return rules, nil
}
