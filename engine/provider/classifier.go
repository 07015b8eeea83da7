package provider

import (
	"fmt"
	"strings"
)

// Descriptor is the endpoint descriptor emitted into the runtime document
// for a custom provider. Built-in providers never get one.
type Descriptor struct {
	APIType string   `json:"apiType"`
	BaseURL string   `json:"baseUrl"`
	APIKey  string   `json:"apiKey"`
	Models  []string `json:"models"`
}

// Classification is the classifier's output: descriptors for custom
// providers, the ordered eligibility list, and the selected default.
type Classification struct {
	Entries  map[Name]Descriptor
	Eligible []Name
	Default  Name
}

// Classifier inspects the environment and classifies every cataloged
// provider as built-in, custom, or absent.
type Classifier struct {
	lookup func(string) (string, bool)
}

// NewClassifier creates a classifier over the given environment lookup
// (typically os.LookupEnv; tests inject a map).
func NewClassifier(lookup func(string) (string, bool)) *Classifier {
	return &Classifier{lookup: lookup}
}

// Classify walks the catalog in priority order. A provider is enabled when
// its API-key variable is set non-empty. Built-in providers become eligible
// with no document entry; custom providers must be fully specified or the
// whole pass fails.
func (c *Classifier) Classify() (*Classification, error) {
	result := &Classification{Entries: make(map[Name]Descriptor)}
	for _, spec := range Catalog() {
		key, ok := c.value(spec.KeyVar)
		if !ok {
			continue
		}
		if spec.Builtin {
			result.Eligible = append(result.Eligible, spec.Name)
			continue
		}
		descriptor, err := c.describe(spec, key)
		if err != nil {
			return nil, err
		}
		result.Entries[spec.Name] = descriptor
		result.Eligible = append(result.Eligible, spec.Name)
	}
	if len(result.Eligible) == 0 {
		return nil, &NoProviderConfiguredError{}
	}
	def, err := c.selectDefault(result.Eligible)
	if err != nil {
		return nil, err
	}
	result.Default = def
	return result, nil
}

// describe assembles a custom provider's descriptor from its environment
// variables, failing on the first missing required field.
func (c *Classifier) describe(spec Spec, key string) (Descriptor, error) {
	apiType, ok := c.value(spec.APITypeVar)
	if !ok {
		return Descriptor{}, &ProviderConfigError{Provider: spec.Name, Field: "apiType"}
	}
	baseURL, ok := c.value(spec.BaseURLVar)
	if !ok {
		return Descriptor{}, &ProviderConfigError{Provider: spec.Name, Field: "baseUrl"}
	}
	raw, ok := c.value(spec.ModelsVar)
	if !ok {
		return Descriptor{}, &ProviderConfigError{Provider: spec.Name, Field: "models"}
	}
	models := splitModels(raw)
	if len(models) == 0 {
		return Descriptor{}, &ProviderConfigError{Provider: spec.Name, Field: "models"}
	}
	return Descriptor{APIType: apiType, BaseURL: baseURL, APIKey: key, Models: models}, nil
}

// selectDefault honors an explicit AGENT_DEFAULT_PROVIDER when it names an
// eligible provider, and otherwise falls back to catalog priority order. An
// explicit but ineligible choice is fatal: silently running on a different
// provider than the deployer asked for is worse than refusing to start.
func (c *Classifier) selectDefault(eligible []Name) (Name, error) {
	requested, ok := c.value(DefaultProviderVar)
	if !ok {
		return eligible[0], nil
	}
	for _, name := range eligible {
		if string(name) == requested {
			return name, nil
		}
	}
	return "", &ProviderConfigError{
		Provider: Name(requested),
		Detail: fmt.Sprintf("%s names %q but that provider is not configured",
			DefaultProviderVar, requested),
	}
}

func (c *Classifier) value(envVar string) (string, bool) {
	if envVar == "" {
		return "", false
	}
	raw, ok := c.lookup(envVar)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func splitModels(raw string) []string {
	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}
