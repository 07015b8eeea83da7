package proxyrules

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Policy is the authentication stance of one route rule.
type Policy string

const (
	// PolicyProtected requires the proxy's basic-auth credential.
	PolicyProtected Policy = "protected"
	// PolicyBypass skips authentication for an exact path.
	PolicyBypass Policy = "bypass"
)

// Rule is one ordered routing rule.
type Rule struct {
	Match  string
	Policy Policy
}

// RoutingConfig is the ordered rule list handed to the reverse proxy. It is
// regenerated every container start and never persisted.
type RoutingConfig struct {
	Rules []Rule
}

// CatchAll matches every path not claimed by an earlier rule.
const CatchAll = "*"

// Derive inspects the written runtime document and produces the routing
// rules. The only possible bypass is the webhook path, and only when
// hooks.enabled is literally true and hooks.path is a non-empty rooted
// string. Every other combination fails closed to protected-only: a path
// without the enable flag, a non-boolean flag, or a malformed path must
// never open a route.
func Derive(runtimeJSON []byte) *RoutingConfig {
	cfg := &RoutingConfig{}
	if path, ok := bypassPath(runtimeJSON); ok {
		cfg.Rules = append(cfg.Rules, Rule{Match: path, Policy: PolicyBypass})
	}
	cfg.Rules = append(cfg.Rules, Rule{Match: CatchAll, Policy: PolicyProtected})
	return cfg
}

// BypassPaths returns the bypass matches in rule order.
func (c *RoutingConfig) BypassPaths() []string {
	var paths []string
	for _, rule := range c.Rules {
		if rule.Policy == PolicyBypass {
			paths = append(paths, rule.Match)
		}
	}
	return paths
}

func bypassPath(runtimeJSON []byte) (string, bool) {
	enabled := gjson.GetBytes(runtimeJSON, "hooks.enabled")
	if enabled.Type != gjson.True {
		return "", false
	}
	path := gjson.GetBytes(runtimeJSON, "hooks.path")
	if path.Type != gjson.String {
		return "", false
	}
	value := strings.TrimSpace(path.String())
	if value == "" || !strings.HasPrefix(value, "/") || value == "/" {
		return "", false
	}
	return value, true
}
