package layer

import "fmt"

// ConfigParseError reports a structurally invalid configuration document.
// Both the deployer-authored custom document and the persisted document are
// covered; a malformed file must abort startup, never be skipped.
type ConfigParseError struct {
	Source string // "custom" or "persisted"
	Path   string
	Err    error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("%s config %s: %v", e.Source, e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// ConfigValueError reports a malformed environment variable value, naming
// the offending variable.
type ConfigValueError struct {
	Variable string
	Value    string
	Reason   string
}

func (e *ConfigValueError) Error() string {
	return fmt.Sprintf("environment variable %s=%q: %s", e.Variable, e.Value, e.Reason)
}

// MissingRequiredSecretError reports an unset required secret. It is checked
// before any synthesis work so the failure surfaces as early as possible.
type MissingRequiredSecretError struct {
	Variable string
}

func (e *MissingRequiredSecretError) Error() string {
	return fmt.Sprintf("required secret %s is not set", e.Variable)
}
