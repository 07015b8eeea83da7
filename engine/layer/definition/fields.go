package definition

// GatewayTokenVar is the shared-secret credential for the reverse proxy. It
// is checked before any synthesis work so a missing secret fails as early as
// possible.
const GatewayTokenVar = "GATEWAY_TOKEN"

// Domains is the fixed policy table. Every domain of the runtime document
// has exactly one merge policy; `channels.discord.guilds` is the json-only
// exception inside an otherwise merge-policy channel.
func Domains() []Domain {
	return []Domain{
		{Path: "gateway", Policy: PolicyMerge},
		{Path: "agent", Policy: PolicyMerge},
		{Path: "models", Policy: PolicyMerge},
		{Path: "channels.telegram", Policy: PolicyMerge},
		{Path: "channels.whatsapp", Policy: PolicyOverwrite},
		{Path: "channels.discord", Policy: PolicyMerge},
		{Path: "channels.discord.guilds", Policy: PolicyJSONOnly},
		{Path: "hooks", Policy: PolicyMerge},
	}
}

// CreateRegistry builds the registry of every recognized document-mapped
// environment variable. This is the single source of truth for the env
// inventory; provider enablement variables (<NAME>_API_KEY and friends) are
// enumerated separately by the provider catalog because their values never
// land in the document verbatim.
func CreateRegistry() *Registry {
	registry := NewRegistry(Domains())
	registerGatewayFields(registry)
	registerAgentFields(registry)
	registerTelegramFields(registry)
	registerWhatsAppFields(registry)
	registerDiscordFields(registry)
	registerHooksFields(registry)
	return registry
}

func registerGatewayFields(registry *Registry) {
	registry.Register(&FieldDef{
		EnvVar: GatewayTokenVar,
		Path:   "gateway.token",
		Kind:   KindSecret,
		Help:   "Shared secret for the reverse proxy basic-auth credential",
	})
	registry.Register(&FieldDef{
		EnvVar: "GATEWAY_PORT",
		Path:   "gateway.port",
		Kind:   KindInt,
		Help:   "Port the agent gateway listens on behind the proxy",
	})
	registry.Register(&FieldDef{
		EnvVar: "GATEWAY_HOST",
		Path:   "gateway.host",
		Kind:   KindString,
		Help:   "Bind address for the agent gateway",
	})
}

func registerAgentFields(registry *Registry) {
	registry.Register(&FieldDef{
		EnvVar: "AGENT_NAME",
		Path:   "agent.name",
		Kind:   KindString,
		Help:   "Display name the agent reports on its channels",
	})
	registry.Register(&FieldDef{
		EnvVar: "AGENT_WORKSPACE",
		Path:   "agent.workspace",
		Kind:   KindString,
		Help:   "Workspace directory the agent operates in",
	})
	registry.Register(&FieldDef{
		EnvVar: "AGENT_TIMEZONE",
		Path:   "agent.timezone",
		Kind:   KindString,
		Help:   "IANA timezone used for scheduling and timestamps",
	})
}

func registerTelegramFields(registry *Registry) {
	registry.Register(&FieldDef{
		EnvVar: "TELEGRAM_ENABLED",
		Path:   "channels.telegram.enabled",
		Kind:   KindBool,
		Help:   "Enable the Telegram channel",
	})
	registry.Register(&FieldDef{
		EnvVar: "TELEGRAM_BOT_TOKEN",
		Path:   "channels.telegram.botToken",
		Kind:   KindSecret,
		Help:   "Telegram bot API token",
	})
	registry.Register(&FieldDef{
		EnvVar: "TELEGRAM_ALLOWED_USERS",
		Path:   "channels.telegram.allowedUsers",
		Kind:   KindCSV,
		Help:   "Comma-separated Telegram user IDs allowed to talk to the agent",
	})
}

func registerWhatsAppFields(registry *Registry) {
	registry.Register(&FieldDef{
		EnvVar: "WHATSAPP_ENABLED",
		Path:   "channels.whatsapp.enabled",
		Kind:   KindBool,
		Help:   "Enable the WhatsApp channel; env owns the whole subtree when set",
	})
	registry.Register(&FieldDef{
		EnvVar: "WHATSAPP_SESSION_NAME",
		Path:   "channels.whatsapp.sessionName",
		Kind:   KindString,
		Help:   "WhatsApp session identifier on the durable volume",
	})
	registry.Register(&FieldDef{
		EnvVar: "WHATSAPP_ALLOW_GROUPS",
		Path:   "channels.whatsapp.allowGroups",
		Kind:   KindBool,
		Help:   "Whether the agent responds in WhatsApp group chats",
	})
}

func registerDiscordFields(registry *Registry) {
	registry.Register(&FieldDef{
		EnvVar: "DISCORD_ENABLED",
		Path:   "channels.discord.enabled",
		Kind:   KindBool,
		Help:   "Enable the Discord channel",
	})
	registry.Register(&FieldDef{
		EnvVar: "DISCORD_BOT_TOKEN",
		Path:   "channels.discord.botToken",
		Kind:   KindSecret,
		Help:   "Discord bot token",
	})
	// The guild allow-list (channels.discord.guilds) is json-only: it is
	// authored in the custom document and never sourced from env.
}

func registerHooksFields(registry *Registry) {
	registry.Register(&FieldDef{
		EnvVar: "HOOKS_ENABLED",
		Path:   "hooks.enabled",
		Kind:   KindBool,
		Help:   "Enable the inbound webhook endpoint",
	})
	registry.Register(&FieldDef{
		EnvVar: "HOOKS_PATH",
		Path:   "hooks.path",
		Kind:   KindString,
		Help:   "Webhook path the proxy exposes without basic auth",
	})
	registry.Register(&FieldDef{
		EnvVar: "HOOKS_TOKEN",
		Path:   "hooks.token",
		Kind:   KindSecret,
		Help:   "Token the agent uses to authenticate webhook payloads",
	})
}
