package roster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Find when no agent matches.
var ErrNotFound = errors.New("agent not found")

// Find returns the agent whose id matches key exactly, or failing that the
// single agent whose full name matches case-insensitively.
func Find(agents []Agent, key string) (Agent, error) {
	key = strings.TrimSpace(key)
	for _, a := range agents {
		if a.ID == key {
			return a, nil
		}
	}
	var match []Agent
	for _, a := range agents {
		if strings.EqualFold(a.Profile.FullName, key) {
			match = append(match, a)
		}
	}
	switch len(match) {
	case 0:
		return Agent{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	case 1:
		return match[0], nil
	}
	return Agent{}, fmt.Errorf("%q matches %d agents, use an id", key, len(match))
}

// FilterOptions narrows a roster listing.
type FilterOptions struct {
	Agency    string `form:"agency"`
	FreeWords string `form:"q"`
	WithLogo  bool   `form:"with_logo"`
}

// Filter returns agents matching every set option. FreeWords are matched as
// lower-cased substrings of name, title, phone and agency; all must match.
func Filter(agents []Agent, opt FilterOptions) []Agent {
	out := []Agent{}
	for _, a := range agents {
		p := a.Profile
		if opt.Agency != "" && !strings.EqualFold(p.Agency, opt.Agency) {
			continue
		}
		if opt.WithLogo && p.LogoURL == "" {
			continue
		}
		if opt.FreeWords != "" {
			hay := strings.ToLower(strings.Join([]string{a.ID, p.FullName, p.JobTitle, p.Phone, p.Agency}, " "))
			ok := true
			for _, k := range strings.Fields(strings.ToLower(opt.FreeWords)) {
				if !strings.Contains(hay, k) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}
