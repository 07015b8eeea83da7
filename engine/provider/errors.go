package provider

import "fmt"

// ProviderConfigError reports a custom provider that is enabled (its API-key
// variable is set) but missing a required descriptor field. A half-specified
// provider must abort synthesis rather than be silently dropped.
type ProviderConfigError struct {
	Provider Name
	Field    string
	Detail   string
}

func (e *ProviderConfigError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("provider %s: %s", e.Provider, e.Detail)
	}
	return fmt.Sprintf("provider %s: missing required field %q", e.Provider, e.Field)
}

// NoProviderConfiguredError reports that classification produced zero
// eligible providers; the agent cannot function without at least one.
type NoProviderConfiguredError struct{}

func (e *NoProviderConfiguredError) Error() string {
	return "no AI provider configured: set at least one provider API key"
}
