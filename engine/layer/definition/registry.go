package definition

import (
	"fmt"
	"strings"
)

// Policy is the merge policy attached to one configuration domain.
type Policy string

const (
	// PolicyMerge lets env values overwrite individual keys while unrelated
	// keys from lower layers survive.
	PolicyMerge Policy = "merge"
	// PolicyOverwrite discards the whole subtree from lower layers whenever
	// the env layer supplies any value for the domain.
	PolicyOverwrite Policy = "overwrite"
	// PolicyJSONOnly marks a domain the env layer must never touch.
	PolicyJSONOnly Policy = "json-only"
)

// ValueKind describes how an environment variable's raw string is decoded
// into a document value.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindSecret ValueKind = "secret"
	KindBool   ValueKind = "bool"
	KindInt    ValueKind = "int"
	// KindCSV decodes a comma-separated list into a sequence of strings.
	KindCSV ValueKind = "csv"
)

// Domain binds a document subtree to its merge policy.
type Domain struct {
	Path   string
	Policy Policy
}

// FieldDef maps one recognized environment variable to a leaf path in the
// configuration document.
type FieldDef struct {
	EnvVar string
	Path   string
	Kind   ValueKind
	Help   string
}

// Registry is the single source of truth for the recognized environment
// variable inventory and the domain policy table.
type Registry struct {
	domains []Domain
	fields  []*FieldDef
	byEnv   map[string]*FieldDef
}

// NewRegistry creates an empty registry with the given domain policy table.
func NewRegistry(domains []Domain) *Registry {
	return &Registry{
		domains: domains,
		byEnv:   make(map[string]*FieldDef),
	}
}

// Register adds a field definition. It panics when the definition is
// malformed or when the target path falls inside a json-only domain:
// env-sourced values for such domains are a construction defect, not a
// runtime condition.
func (r *Registry) Register(def *FieldDef) {
	if def.EnvVar == "" || def.Path == "" {
		panic(fmt.Sprintf("definition: incomplete field def %+v", def))
	}
	if _, exists := r.byEnv[def.EnvVar]; exists {
		panic(fmt.Sprintf("definition: duplicate env var %s", def.EnvVar))
	}
	if domain, ok := r.DomainFor(def.Path); ok && domain.Policy == PolicyJSONOnly {
		panic(fmt.Sprintf("definition: %s targets json-only domain %s", def.EnvVar, domain.Path))
	}
	r.fields = append(r.fields, def)
	r.byEnv[def.EnvVar] = def
}

// Fields returns all registered field definitions in registration order.
func (r *Registry) Fields() []*FieldDef {
	return r.fields
}

// Lookup returns the definition for an environment variable name.
func (r *Registry) Lookup(envVar string) (*FieldDef, bool) {
	def, ok := r.byEnv[envVar]
	return def, ok
}

// Domains returns the domain policy table.
func (r *Registry) Domains() []Domain {
	return r.domains
}

// DomainFor returns the most specific domain containing path. More specific
// domains (longer paths) win, so an exception like a json-only child inside a
// merge domain resolves to the child.
func (r *Registry) DomainFor(path string) (Domain, bool) {
	var best Domain
	found := false
	for _, d := range r.domains {
		if path != d.Path && !strings.HasPrefix(path, d.Path+".") {
			continue
		}
		if !found || len(d.Path) > len(best.Path) {
			best = d
			found = true
		}
	}
	return best, found
}
