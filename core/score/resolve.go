package score

import (
	"strings"

	"github.com/huangsam/siri/schema"
)

// Resolver maps raw blame authors to canonical identities.
// Lookups are case-insensitive; a canonical name resolves to itself.
type Resolver struct {
	byAlias map[string]string
	factors map[string]float64
}

// NewResolver indexes the configured identities.
func NewResolver(identities []schema.AuthorIdentity) *Resolver {
	r := &Resolver{
		byAlias: make(map[string]string),
		factors: make(map[string]float64, len(identities)),
	}
	for _, id := range identities {
		r.factors[id.Name] = id.Factor
		r.byAlias[strings.ToLower(id.Name)] = id.Name
		for _, alias := range id.Aliases {
			r.byAlias[strings.ToLower(strings.TrimSpace(alias))] = id.Name
		}
	}
	return r
}

// Resolve returns the canonical identity for an author, trying the email
// before the name. The second result is false for unknown authors.
func (r *Resolver) Resolve(name, email string) (string, bool) {
	for _, key := range []string{email, name} {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if canonical, ok := r.byAlias[key]; ok {
			return canonical, true
		}
	}
	return "", false
}

// Factor returns the SIRI weight of a canonical identity.
func (r *Resolver) Factor(canonical string) (float64, bool) {
	f, ok := r.factors[canonical]
	return f, ok
}
