package skill

import (
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Registry catalogs skills by name@version. It is populated once at startup
// and read-only for the remainder of a test run; registration fails closed so
// an invalid skill is never stored.
type Registry struct {
	skills map[string]*Skill
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]*Skill)}
}

// Register validates the skill and stores it under its composite key. The
// returned error is a *ValidationError aggregating every definition problem.
func (r *Registry) Register(s *Skill) error {
	if errs := s.Validate(); len(errs) > 0 {
		var agg *multierror.Error
		for _, err := range errs {
			agg = multierror.Append(agg, err)
		}
		return &ValidationError{Skill: s.Metadata.Name, Errors: agg.WrappedErrors()}
	}
	r.skills[s.ID()] = s
	return nil
}

// Get returns the skill with the exact version when one is given, otherwise
// the latest registered version of the name.
//
// "Latest" is resolved by lexicographic comparison of version strings, which
// is wrong for versions like "9.0.0" vs "10.0.0". This matches the historical
// behavior of the framework and is kept as a documented limitation.
func (r *Registry) Get(name, version string) (*Skill, error) {
	if version != "" {
		s, ok := r.skills[name+"@"+version]
		if !ok {
			return nil, &NotFoundError{Name: name, Version: version}
		}
		return s, nil
	}

	var latest *Skill
	for _, s := range r.skills {
		if s.Metadata.Name != name {
			continue
		}
		if latest == nil || s.Metadata.Version > latest.Metadata.Version {
			latest = s
		}
	}
	if latest == nil {
		return nil, &NotFoundError{Name: name}
	}
	return latest, nil
}

// FindByTrigger returns every skill whose CanTrigger is true for the input
// and context. The order of the returned slice is unspecified.
func (r *Registry) FindByTrigger(input string, context map[string]any) []*Skill {
	var matched []*Skill
	for _, s := range r.skills {
		if s.CanTrigger(input, context) {
			matched = append(matched, s)
		}
	}
	return matched
}

// ListAll returns every registered skill, sorted by composite key for
// deterministic iteration during test runs.
func (r *Registry) ListAll() []*Skill {
	ids := make([]string, 0, len(r.skills))
	for id := range r.skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Skill, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.skills[id])
	}
	return out
}

// Len returns the number of registered skill versions.
func (r *Registry) Len() int {
	return len(r.skills)
}
