package settings

import "path/filepath"

// Settings are agentcrate's own knobs: where the three configuration
// sources live, where the artifacts land, and how the process logs. They are
// distinct from the agent's runtime document, which is synthesized, not
// declared here.
type Settings struct {
	// CustomConfigPath is the read-only mount of the deployer-authored
	// document (.json, .jsonc comments tolerated, or .yaml).
	CustomConfigPath string `koanf:"custom_config_path" env:"AGENTCRATE_CUSTOM_CONFIG"   validate:"required"`
	// StateDir is the durable volume holding the persisted document.
	StateDir string `koanf:"state_dir"          env:"AGENTCRATE_STATE_DIR"       validate:"required"`
	// RuntimeConfigFile is the runtime document's filename inside StateDir.
	RuntimeConfigFile string `koanf:"runtime_config_file" env:"AGENTCRATE_RUNTIME_FILE"   validate:"required"`
	// ProxyConfigPath is where the rendered proxy config is written.
	ProxyConfigPath string `koanf:"proxy_config_path"  env:"AGENTCRATE_PROXY_CONFIG"    validate:"required"`
	// ProxyListen is the proxy's listen address.
	ProxyListen string `koanf:"proxy_listen"       env:"AGENTCRATE_PROXY_LISTEN"    validate:"required"`
	// Upstream is the agent gateway address behind the proxy.
	Upstream string `koanf:"upstream"           env:"AGENTCRATE_UPSTREAM"        validate:"required"`
	// BasicAuthUser is the account name for the protected catch-all route.
	BasicAuthUser string `koanf:"basic_auth_user"    env:"AGENTCRATE_BASIC_AUTH_USER" validate:"required"`
	// AgentBin is the packaged agent's binary, used for the post-synthesis
	// channel-normalization maintenance call.
	AgentBin string `koanf:"agent_bin"          env:"AGENTCRATE_AGENT_BIN"       validate:"required"`
	// SkipDoctor disables the maintenance call.
	SkipDoctor bool `koanf:"skip_doctor"        env:"AGENTCRATE_SKIP_DOCTOR"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"          env:"AGENTCRATE_LOG_LEVEL"       validate:"omitempty,oneof=debug info warn error"`
	// LogJSON switches the logger to JSON output.
	LogJSON bool `koanf:"log_json"           env:"AGENTCRATE_LOG_JSON"`
}

// Default returns the container-layout defaults.
func Default() *Settings {
	return &Settings{
		CustomConfigPath:  "/config/agentcrate.json",
		StateDir:          "/data/state",
		RuntimeConfigFile: "runtime.json",
		ProxyConfigPath:   "/data/caddy/Caddyfile",
		ProxyListen:       ":8080",
		Upstream:          "127.0.0.1:18789",
		BasicAuthUser:     "agent",
		AgentBin:          "agent",
		LogLevel:          "info",
	}
}

// RuntimeConfigPath is the full path of the persisted runtime document.
func (s *Settings) RuntimeConfigPath() string {
	return filepath.Join(s.StateDir, s.RuntimeConfigFile)
}
