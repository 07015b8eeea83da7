package synth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcrate/agentcrate/engine/layer"
	"github.com/agentcrate/agentcrate/engine/layer/definition"
	"github.com/agentcrate/agentcrate/engine/provider"
	"github.com/agentcrate/agentcrate/pkg/document"
	"github.com/agentcrate/agentcrate/pkg/state"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func newTestSynthesizer(t *testing.T, env map[string]string) (*Synthesizer, *state.Store) {
	t.Helper()
	store := state.NewStore(filepath.Join(t.TempDir(), "runtime.json"))
	synthesizer := New(
		definition.CreateRegistry(),
		provider.NewClassifier(envLookup(env)),
		store,
	)
	return synthesizer, store
}

func TestSynthesizer_Synthesize(t *testing.T) {
	anthropicOnly := map[string]string{"ANTHROPIC_API_KEY": "sk-a"}

	t.Run("Should resolve a merge-domain key to the env value", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, anthropicOnly)
		layers := &layer.Layers{
			Custom:    document.Map{"hooks": document.Map{"path": document.String("/custom")}},
			Persisted: document.Map{"hooks": document.Map{"path": document.String("/persisted")}},
			Env:       document.Map{"hooks": document.Map{"path": document.String("/env")}},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		path, _ := document.Get(result, "hooks.path")
		assert.Equal(t, document.String("/env"), path)
	})

	t.Run("Should keep unrelated lower-layer keys in merge domains", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, anthropicOnly)
		layers := &layer.Layers{
			Custom: document.Map{"channels": document.Map{"telegram": document.Map{
				"replyMode": document.String("thread"),
			}}},
			Persisted: document.Map{},
			Env: document.Map{"channels": document.Map{"telegram": document.Map{
				"enabled": document.Bool(true),
			}}},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		replyMode, _ := document.Get(result, "channels.telegram.replyMode")
		assert.Equal(t, document.String("thread"), replyMode)
		enabled, _ := document.Get(result, "channels.telegram.enabled")
		assert.Equal(t, document.Bool(true), enabled)
	})

	t.Run("Should discard lower layers entirely in an overwrite domain", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, anthropicOnly)
		layers := &layer.Layers{
			Custom: document.Map{"channels": document.Map{"whatsapp": document.Map{
				"enabled":  document.Bool(false),
				"proxyUrl": document.String("socks5://old"),
			}}},
			Persisted: document.Map{},
			Env: document.Map{"channels": document.Map{"whatsapp": document.Map{
				"enabled":     document.Bool(true),
				"sessionName": document.String("main"),
			}}},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		whatsapp, ok := document.Get(result, "channels.whatsapp")
		require.True(t, ok)
		expected := document.Map{
			"enabled":     document.Bool(true),
			"sessionName": document.String("main"),
		}
		assert.True(t, document.Equal(expected, whatsapp), "custom-only keys must not survive")
	})

	t.Run("Should keep lower layers in an overwrite domain the env never touches", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, anthropicOnly)
		layers := &layer.Layers{
			Custom: document.Map{"channels": document.Map{"whatsapp": document.Map{
				"enabled": document.Bool(true),
			}}},
			Persisted: document.Map{},
			Env:       document.Map{},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		enabled, _ := document.Get(result, "channels.whatsapp.enabled")
		assert.Equal(t, document.Bool(true), enabled)
	})

	t.Run("Should never apply env values to a json-only domain", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, anthropicOnly)
		// A guilds value in the env layer can only come from a defect; it
		// must be dropped, not honored.
		layers := &layer.Layers{
			Custom: document.Map{"channels": document.Map{"discord": document.Map{
				"guilds": document.Map{"allow": document.Seq{document.String("guild-1")}},
			}}},
			Persisted: document.Map{},
			Env: document.Map{"channels": document.Map{"discord": document.Map{
				"guilds": document.Map{"allow": document.Seq{document.String("intruder")}},
			}}},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		allow, ok := document.Get(result, "channels.discord.guilds.allow")
		require.True(t, ok)
		assert.Equal(t, document.Seq{document.String("guild-1")}, allow)
	})

	t.Run("Should strip built-in provider entries from the document", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, anthropicOnly)
		layers := &layer.Layers{
			Custom: document.Map{},
			Persisted: document.Map{"models": document.Map{"providers": document.Map{
				"anthropic": document.Map{"apiKey": document.String("stale")},
			}}},
			Env: document.Map{},
		}

		result, classification, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		_, ok := document.Get(result, "models.providers.anthropic")
		assert.False(t, ok)
		assert.Equal(t, []provider.Name{provider.NameAnthropic}, classification.Eligible)
	})

	t.Run("Should emit descriptors for custom providers and pick the default", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, map[string]string{
			"OLLAMA_API_KEY":  "key",
			"OLLAMA_API_TYPE": "openai",
			"OLLAMA_BASE_URL": "http://ollama:11434/v1",
			"OLLAMA_MODELS":   "llama3",
		})
		layers := &layer.Layers{
			Custom:    document.Map{},
			Persisted: document.Map{},
			Env:       document.Map{},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		baseURL, _ := document.Get(result, "models.providers.ollama.baseUrl")
		assert.Equal(t, document.String("http://ollama:11434/v1"), baseURL)
		models, _ := document.Get(result, "models.providers.ollama.models")
		assert.Equal(t, document.Seq{document.String("llama3")}, models)
		def, _ := document.Get(result, "models.default")
		assert.Equal(t, document.String("ollama"), def)
	})

	t.Run("Should drop a custom provider entry once its env vars are gone", func(t *testing.T) {
		dir := t.TempDir()
		store := state.NewStore(filepath.Join(dir, "runtime.json"))
		registry := definition.CreateRegistry()
		customPath := filepath.Join(dir, "missing.json")

		firstEnv := map[string]string{
			"OLLAMA_API_KEY":  "stale-key",
			"OLLAMA_API_TYPE": "openai",
			"OLLAMA_BASE_URL": "http://ollama:11434/v1",
			"OLLAMA_MODELS":   "llama3",
		}
		synthesizer := New(registry, provider.NewClassifier(envLookup(firstEnv)), store)
		loader := layer.NewLoader(registry, customPath, store, envLookup(firstEnv))
		layers, err := loader.Load(context.Background())
		require.NoError(t, err)
		_, _, err = synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		secondEnv := map[string]string{"ANTHROPIC_API_KEY": "sk-a"}
		synthesizer = New(registry, provider.NewClassifier(envLookup(secondEnv)), store)
		loader = layer.NewLoader(registry, customPath, store, envLookup(secondEnv))
		layers, err = loader.Load(context.Background())
		require.NoError(t, err)
		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		_, ok := document.Get(result, "models.providers.ollama")
		assert.False(t, ok, "a disabled provider's descriptor must not outlive its env vars")
		def, _ := document.Get(result, "models.default")
		assert.Equal(t, document.String("anthropic"), def)
	})

	t.Run("Should keep provider entries outside the catalog", func(t *testing.T) {
		synthesizer, _ := newTestSynthesizer(t, anthropicOnly)
		layers := &layer.Layers{
			Custom: document.Map{"models": document.Map{"providers": document.Map{
				"corp-gateway": document.Map{
					"apiType": document.String("openai"),
					"baseUrl": document.String("http://llm.internal:4000"),
					"models":  document.Seq{document.String("corp-1")},
				},
			}}},
			Persisted: document.Map{},
			Env:       document.Map{},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		baseURL, ok := document.Get(result, "models.providers.corp-gateway.baseUrl")
		require.True(t, ok)
		assert.Equal(t, document.String("http://llm.internal:4000"), baseURL)
	})

	t.Run("Should propagate provider classification failures", func(t *testing.T) {
		synthesizer, store := newTestSynthesizer(t, nil)
		layers := &layer.Layers{
			Custom:    document.Map{},
			Persisted: document.Map{},
			Env:       document.Map{},
		}

		_, _, err := synthesizer.Synthesize(context.Background(), layers)
		var noneErr *provider.NoProviderConfiguredError
		require.ErrorAs(t, err, &noneErr)

		data, readErr := store.ReadBytes()
		require.NoError(t, readErr)
		assert.Nil(t, data, "a failed pass must not persist anything")
	})

	t.Run("Should write the runtime document back to the store", func(t *testing.T) {
		synthesizer, store := newTestSynthesizer(t, anthropicOnly)
		layers := &layer.Layers{
			Custom:    document.Map{"agent": document.Map{"name": document.String("crabbot")}},
			Persisted: document.Map{},
			Env:       document.Map{},
		}

		result, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		data, err := store.ReadBytes()
		require.NoError(t, err)
		persisted, err := document.DecodeJSON(data)
		require.NoError(t, err)
		assert.True(t, document.Equal(result, persisted))
	})

	t.Run("Should be idempotent across runs with identical inputs", func(t *testing.T) {
		env := map[string]string{
			"ANTHROPIC_API_KEY": "sk-a",
			"TELEGRAM_ENABLED":  "true",
			"HOOKS_ENABLED":     "true",
			"HOOKS_PATH":        "/webhook",
		}
		dir := t.TempDir()
		store := state.NewStore(filepath.Join(dir, "runtime.json"))
		registry := definition.CreateRegistry()
		synthesizer := New(registry, provider.NewClassifier(envLookup(env)), store)
		loader := layer.NewLoader(registry, filepath.Join(dir, "missing.json"), store, envLookup(env))

		layers, err := loader.Load(context.Background())
		require.NoError(t, err)
		first, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		layers, err = loader.Load(context.Background())
		require.NoError(t, err)
		second, _, err := synthesizer.Synthesize(context.Background(), layers)
		require.NoError(t, err)

		assert.True(t, document.Equal(first, second))
	})
}
