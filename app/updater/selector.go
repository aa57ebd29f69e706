package updater

import "strings"

// Selector routes an origin URL to the registered updater with the best
// (lowest) compatibility score. The registered set is fixed at construction;
// the composition root builds every updater and injects it here.
type Selector struct {
	updaters []Updater
}

func NewSelector(updaters ...Updater) Selector {
	return Selector{updaters: updaters}
}

// Of returns the updater claiming the minimum compatibility score for url.
// Empty URLs and URLs no updater can handle resolve to the NoOpUpdater.
// On equal scores the first registered updater wins; by convention exactly
// one updater claims a non-sentinel score for any real URL.
func (s Selector) Of(url string) Updater {
	if strings.TrimSpace(url) == "" {
		return NoOpUpdater{}
	}

	best := Updater(NoOpUpdater{})
	bestScore := Incompatible
	for _, u := range s.updaters {
		if score := u.Compatibility(url); score < bestScore {
			best, bestScore = u, score
		}
	}
	return best
}

// OfType returns the registered updater with the given type key, for
// podcasts whose definition pins a source family explicitly (e.g. manual
// uploads, which no URL ever routes to).
func (s Selector) OfType(key string) Updater {
	for _, u := range s.updaters {
		if u.Type().Key == key {
			return u
		}
	}
	return NoOpUpdater{}
}

// Types lists the distinct type of every registered updater, in registration
// order. It backs the catalog of available source kinds.
func (s Selector) Types() []Type {
	seen := make(map[string]bool, len(s.updaters))
	types := make([]Type, 0, len(s.updaters))
	for _, u := range s.updaters {
		t := u.Type()
		if seen[t.Key] {
			continue
		}
		seen[t.Key] = true
		types = append(types, t)
	}
	return types
}
