package layer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcrate/agentcrate/engine/layer/definition"
	"github.com/agentcrate/agentcrate/pkg/document"
	"github.com/agentcrate/agentcrate/pkg/state"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func newTestLoader(t *testing.T, customContent string, env map[string]string) *Loader {
	t.Helper()
	dir := t.TempDir()
	customPath := filepath.Join(dir, "agentcrate.json")
	if customContent != "" {
		require.NoError(t, os.WriteFile(customPath, []byte(customContent), 0o600))
	}
	store := state.NewStore(filepath.Join(dir, "state", "runtime.json"))
	return NewLoader(definition.CreateRegistry(), customPath, store, envLookup(env))
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should yield empty documents when custom and persisted are absent", func(t *testing.T) {
		loader := newTestLoader(t, "", nil)

		layers, err := loader.Load(context.Background())
		require.NoError(t, err)

		assert.Empty(t, layers.Custom)
		assert.Empty(t, layers.Persisted)
		assert.Empty(t, layers.Env)
	})

	t.Run("Should fail with ConfigParseError on a malformed custom document", func(t *testing.T) {
		loader := newTestLoader(t, `{"agent": `, nil)

		_, err := loader.Load(context.Background())
		var parseErr *ConfigParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "custom", parseErr.Source)
	})

	t.Run("Should parse a commented custom document", func(t *testing.T) {
		loader := newTestLoader(t, `{
			// pinned by the deployer
			"agent": {"name": "crabbot"},
		}`, nil)

		layers, err := loader.Load(context.Background())
		require.NoError(t, err)

		name, ok := document.Get(layers.Custom, "agent.name")
		require.True(t, ok)
		assert.Equal(t, document.String("crabbot"), name)
	})

	t.Run("Should report an unreadable custom document as a read failure, not a parse failure", func(t *testing.T) {
		dir := t.TempDir()
		// A directory at the custom path forces a non-ENOENT read error.
		customPath := filepath.Join(dir, "agentcrate.json")
		require.NoError(t, os.Mkdir(customPath, 0o755))
		store := state.NewStore(filepath.Join(dir, "state", "runtime.json"))
		loader := NewLoader(definition.CreateRegistry(), customPath, store, envLookup(nil))

		_, err := loader.Load(context.Background())
		require.Error(t, err)

		var parseErr *ConfigParseError
		assert.False(t, errors.As(err, &parseErr))
		assert.Contains(t, err.Error(), customPath)
	})

	t.Run("Should fail with ConfigParseError on a malformed persisted document", func(t *testing.T) {
		dir := t.TempDir()
		statePath := filepath.Join(dir, "runtime.json")
		require.NoError(t, os.WriteFile(statePath, []byte("not json"), 0o600))
		loader := NewLoader(
			definition.CreateRegistry(),
			filepath.Join(dir, "missing.json"),
			state.NewStore(statePath),
			envLookup(nil),
		)

		_, err := loader.Load(context.Background())
		var parseErr *ConfigParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "persisted", parseErr.Source)
	})
}

func TestLoader_BuildEnvDocument(t *testing.T) {
	t.Run("Should map variables to their document paths by kind", func(t *testing.T) {
		loader := newTestLoader(t, "", map[string]string{
			"TELEGRAM_ENABLED":       "true",
			"TELEGRAM_ALLOWED_USERS": "alice, bob",
			"GATEWAY_PORT":           "18789",
			"HOOKS_PATH":             "/webhook",
		})

		env, err := loader.BuildEnvDocument()
		require.NoError(t, err)

		enabled, _ := document.Get(env, "channels.telegram.enabled")
		assert.Equal(t, document.Bool(true), enabled)
		users, _ := document.Get(env, "channels.telegram.allowedUsers")
		assert.Equal(t, document.Seq{document.String("alice"), document.String("bob")}, users)
		port, _ := document.Get(env, "gateway.port")
		assert.Equal(t, document.Number(18789), port)
		path, _ := document.Get(env, "hooks.path")
		assert.Equal(t, document.String("/webhook"), path)
	})

	t.Run("Should skip unset and empty variables", func(t *testing.T) {
		loader := newTestLoader(t, "", map[string]string{
			"TELEGRAM_BOT_TOKEN": "   ",
		})

		env, err := loader.BuildEnvDocument()
		require.NoError(t, err)
		assert.Empty(t, env)
	})

	t.Run("Should fail with ConfigValueError naming a malformed boolean", func(t *testing.T) {
		loader := newTestLoader(t, "", map[string]string{
			"HOOKS_ENABLED": "maybe",
		})

		_, err := loader.BuildEnvDocument()
		var valueErr *ConfigValueError
		require.ErrorAs(t, err, &valueErr)
		assert.Equal(t, "HOOKS_ENABLED", valueErr.Variable)
	})

	t.Run("Should fail with ConfigValueError naming a malformed integer", func(t *testing.T) {
		loader := newTestLoader(t, "", map[string]string{
			"GATEWAY_PORT": "eighty",
		})

		_, err := loader.BuildEnvDocument()
		var valueErr *ConfigValueError
		require.ErrorAs(t, err, &valueErr)
		assert.Equal(t, "GATEWAY_PORT", valueErr.Variable)
	})

	t.Run("Should accept the documented boolean spellings", func(t *testing.T) {
		for raw, expected := range map[string]bool{
			"true": true, "1": true, "yes": true, "ON": true,
			"false": false, "0": false, "no": false, "off": false,
		} {
			loader := newTestLoader(t, "", map[string]string{"HOOKS_ENABLED": raw})
			env, err := loader.BuildEnvDocument()
			require.NoError(t, err, "value %q", raw)
			enabled, _ := document.Get(env, "hooks.enabled")
			assert.Equal(t, document.Bool(expected), enabled, "value %q", raw)
		}
	})
}

func TestLoader_RequireGatewayToken(t *testing.T) {
	t.Run("Should fail before synthesis when the token is unset", func(t *testing.T) {
		loader := newTestLoader(t, "", nil)

		_, err := loader.RequireGatewayToken()
		var missingErr *MissingRequiredSecretError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, definition.GatewayTokenVar, missingErr.Variable)
	})

	t.Run("Should return the token when set", func(t *testing.T) {
		loader := newTestLoader(t, "", map[string]string{"GATEWAY_TOKEN": "secret"})

		token, err := loader.RequireGatewayToken()
		require.NoError(t, err)
		assert.Equal(t, "secret", token)
	})
}
