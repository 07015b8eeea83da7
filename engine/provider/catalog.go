package provider

// Name identifies one AI provider the packaged agent can talk to.
type Name string

const (
	NameAnthropic  Name = "anthropic"
	NameOpenAI     Name = "openai"
	NameOpenRouter Name = "openrouter"
	NameGoogle     Name = "google"
	NameGroq       Name = "groq"
	NameMistral    Name = "mistral"
	NameXAI        Name = "xai"
	NameDeepSeek   Name = "deepseek"
	NameOllama     Name = "ollama"
	NameLiteLLM    Name = "litellm"
	NameVLLM       Name = "vllm"
)

// Spec describes one provider in the fixed catalog: its enabling API-key
// variable and, for custom providers, the endpoint descriptor variables.
// Built-in providers are auto-detected by the agent from the key variable
// alone and must never receive a providers entry in the document.
type Spec struct {
	Name    Name
	KeyVar  string
	Builtin bool
	// Descriptor variables, custom providers only.
	APITypeVar string
	BaseURLVar string
	ModelsVar  string
}

// Catalog returns the fixed provider catalog in default-selection priority
// order.
func Catalog() []Spec {
	return []Spec{
		{Name: NameAnthropic, KeyVar: "ANTHROPIC_API_KEY", Builtin: true},
		{Name: NameOpenAI, KeyVar: "OPENAI_API_KEY", Builtin: true},
		{Name: NameOpenRouter, KeyVar: "OPENROUTER_API_KEY", Builtin: true},
		{Name: NameGoogle, KeyVar: "GOOGLE_API_KEY", Builtin: true},
		{Name: NameGroq, KeyVar: "GROQ_API_KEY", Builtin: true},
		{Name: NameMistral, KeyVar: "MISTRAL_API_KEY", Builtin: true},
		{Name: NameXAI, KeyVar: "XAI_API_KEY", Builtin: true},
		{Name: NameDeepSeek, KeyVar: "DEEPSEEK_API_KEY", Builtin: true},
		{
			Name:       NameOllama,
			KeyVar:     "OLLAMA_API_KEY",
			APITypeVar: "OLLAMA_API_TYPE",
			BaseURLVar: "OLLAMA_BASE_URL",
			ModelsVar:  "OLLAMA_MODELS",
		},
		{
			Name:       NameLiteLLM,
			KeyVar:     "LITELLM_API_KEY",
			APITypeVar: "LITELLM_API_TYPE",
			BaseURLVar: "LITELLM_BASE_URL",
			ModelsVar:  "LITELLM_MODELS",
		},
		{
			Name:       NameVLLM,
			KeyVar:     "VLLM_API_KEY",
			APITypeVar: "VLLM_API_TYPE",
			BaseURLVar: "VLLM_BASE_URL",
			ModelsVar:  "VLLM_MODELS",
		},
	}
}

// CatalogSpec returns the catalog entry for name, if any.
func CatalogSpec(name Name) (Spec, bool) {
	for _, spec := range Catalog() {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// IsBuiltin reports whether name is in the built-in allow-list.
func IsBuiltin(name Name) bool {
	spec, ok := CatalogSpec(name)
	return ok && spec.Builtin
}

// DefaultProviderVar selects which eligible provider becomes the agent's
// default model provider.
const DefaultProviderVar = "AGENT_DEFAULT_PROVIDER"
