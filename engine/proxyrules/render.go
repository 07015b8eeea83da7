package proxyrules

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RenderOptions configure the rendered proxy document.
type RenderOptions struct {
	// Listen is the proxy's listen address, e.g. ":8080".
	Listen string
	// Upstream is the agent gateway address the proxy forwards to.
	Upstream string
	// User is the basic-auth account name.
	User string
	// GatewayToken is the shared secret; the proxy stores only its bcrypt
	// hash and injects the upstream Authorization header itself, so the
	// client-supplied header never reaches the agent.
	GatewayToken string
}

// Caddyfile renders the routing config as a Caddyfile. Bypass rules become
// handle blocks ahead of the authenticated catch-all, so order in Rules is
// preserved by construction.
func (c *RoutingConfig) Caddyfile(opts RenderOptions) (string, error) {
	if opts.GatewayToken == "" {
		return "", fmt.Errorf("render proxy config: gateway token is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.GatewayToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash gateway token: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", opts.Listen)
	for i, rule := range c.Rules {
		if rule.Policy != PolicyBypass {
			continue
		}
		matcher := fmt.Sprintf("@bypass%d", i)
		fmt.Fprintf(&b, "\t%s path %s\n", matcher, rule.Match)
		fmt.Fprintf(&b, "\thandle %s {\n", matcher)
		fmt.Fprintf(&b, "\t\treverse_proxy %s\n", opts.Upstream)
		fmt.Fprintf(&b, "\t}\n")
	}
	fmt.Fprintf(&b, "\thandle {\n")
	fmt.Fprintf(&b, "\t\tbasic_auth {\n")
	fmt.Fprintf(&b, "\t\t\t%s %s\n", opts.User, string(hash))
	fmt.Fprintf(&b, "\t\t}\n")
	fmt.Fprintf(&b, "\t\treverse_proxy %s {\n", opts.Upstream)
	fmt.Fprintf(&b, "\t\t\theader_up Authorization \"Bearer %s\"\n", opts.GatewayToken)
	fmt.Fprintf(&b, "\t\t}\n")
	fmt.Fprintf(&b, "\t}\n")
	fmt.Fprintf(&b, "}\n")
	return b.String(), nil
}
