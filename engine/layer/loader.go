package layer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentcrate/agentcrate/engine/layer/definition"
	"github.com/agentcrate/agentcrate/pkg/document"
	"github.com/agentcrate/agentcrate/pkg/logger"
	"github.com/agentcrate/agentcrate/pkg/state"
)

// Layers holds the three configuration sources in precedence order:
// custom < persisted < env.
type Layers struct {
	Custom    document.Map
	Persisted document.Map
	Env       document.Map
}

// Loader reads the three configuration layers. Each source is tolerant of
// absence but not of malformation.
type Loader struct {
	registry   *definition.Registry
	customPath string
	store      *state.Store
	lookup     func(string) (string, bool)
}

// NewLoader wires a loader from its collaborators. lookup is the environment
// accessor (os.LookupEnv in production).
func NewLoader(
	registry *definition.Registry,
	customPath string,
	store *state.Store,
	lookup func(string) (string, bool),
) *Loader {
	return &Loader{
		registry:   registry,
		customPath: customPath,
		store:      store,
		lookup:     lookup,
	}
}

// RequireGatewayToken verifies the gateway secret is present. Called before
// any synthesis work so a missing secret aborts the run immediately.
func (l *Loader) RequireGatewayToken() (string, error) {
	token, ok := l.lookup(definition.GatewayTokenVar)
	if !ok || strings.TrimSpace(token) == "" {
		return "", &MissingRequiredSecretError{Variable: definition.GatewayTokenVar}
	}
	return token, nil
}

// Load produces the three layer documents.
func (l *Loader) Load(ctx context.Context) (*Layers, error) {
	log := logger.FromContext(ctx)
	custom, err := l.loadCustom()
	if err != nil {
		return nil, err
	}
	persisted, err := l.loadPersisted()
	if err != nil {
		return nil, err
	}
	env, err := l.BuildEnvDocument()
	if err != nil {
		return nil, err
	}
	log.Debug("configuration layers loaded",
		"custom_keys", len(custom), "persisted_keys", len(persisted), "env_keys", len(env))
	return &Layers{Custom: custom, Persisted: persisted, Env: env}, nil
}

// loadCustom reads the deployer-authored document from the fixed mount path.
// Absence yields an empty document; a parse failure is fatal because it
// means the deployer made a mistake that must not be silently ignored.
func (l *Loader) loadCustom() (document.Map, error) {
	data, err := os.ReadFile(l.customPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(document.Map), nil
		}
		// An unreadable file is an I/O failure, not a parse failure; it is
		// still fatal.
		return nil, fmt.Errorf("read custom config %s: %w", l.customPath, err)
	}
	doc, err := decodeByExtension(l.customPath, data)
	if err != nil {
		return nil, &ConfigParseError{Source: "custom", Path: l.customPath, Err: err}
	}
	return doc, nil
}

// loadPersisted reads the previous run's runtime document. Absence is the
// expected first-run case.
func (l *Loader) loadPersisted() (document.Map, error) {
	data, err := l.store.ReadBytes()
	if err != nil {
		return nil, &ConfigParseError{Source: "persisted", Path: l.store.Path(), Err: err}
	}
	if data == nil {
		return make(document.Map), nil
	}
	doc, err := document.DecodeJSON(data)
	if err != nil {
		return nil, &ConfigParseError{Source: "persisted", Path: l.store.Path(), Err: err}
	}
	return doc, nil
}

// BuildEnvDocument scans the registry's variable inventory and assembles the
// env layer. Unset variables contribute nothing; an empty value counts as
// unset so `FOO=` in a compose file does not become an explicit empty string.
func (l *Loader) BuildEnvDocument() (document.Map, error) {
	doc := make(document.Map)
	for _, def := range l.registry.Fields() {
		raw, ok := l.lookup(def.EnvVar)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		node, err := decodeEnvValue(def, strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		document.Set(doc, def.Path, node)
	}
	return doc, nil
}

func decodeByExtension(path string, data []byte) (document.Map, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return document.DecodeYAML(data)
	default:
		return document.DecodeJSON(data)
	}
}

func decodeEnvValue(def *definition.FieldDef, raw string) (document.Node, error) {
	switch def.Kind {
	case definition.KindBool:
		value, err := parseBool(raw)
		if err != nil {
			return nil, &ConfigValueError{
				Variable: def.EnvVar,
				Value:    raw,
				Reason:   "expected a boolean (true/false, 1/0, yes/no, on/off)",
			}
		}
		return document.Bool(value), nil
	case definition.KindInt:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ConfigValueError{
				Variable: def.EnvVar,
				Value:    raw,
				Reason:   "expected an integer",
			}
		}
		return document.Number(value), nil
	case definition.KindCSV:
		parts := strings.Split(raw, ",")
		seq := make(document.Seq, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				seq = append(seq, document.String(trimmed))
			}
		}
		return seq, nil
	case definition.KindString, definition.KindSecret:
		return document.String(raw), nil
	default:
		return nil, fmt.Errorf("unknown value kind %q for %s", def.Kind, def.EnvVar)
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", raw)
	}
}
