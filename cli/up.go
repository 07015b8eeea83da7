package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentcrate/agentcrate/engine/proxyrules"
	"github.com/agentcrate/agentcrate/pkg/document"
	"github.com/agentcrate/agentcrate/pkg/logger"
)

// UpCmd is the container entrypoint: one synthesis-and-derivation pass,
// fail-fast. If anything goes wrong the process exits non-zero before the
// agent or the proxy are launched.
func UpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Synthesize the runtime config and derive the proxy routes",
		RunE:  runUp,
	}
	addPathFlags(cmd)
	cmd.Flags().Bool("skip-doctor", false, "Skip the agent's channel-normalization maintenance call")
	return cmd
}

func runUp(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	p, err := newPass(ctx, cmd)
	if err != nil {
		return err
	}

	// The gateway secret gates everything else: check it before any
	// synthesis work.
	token, err := p.loader.RequireGatewayToken()
	if err != nil {
		return err
	}

	layers, err := p.loader.Load(ctx)
	if err != nil {
		return err
	}
	runtimeDoc, _, err := p.synthesizer.Synthesize(ctx, layers)
	if err != nil {
		return err
	}

	runtimeJSON, err := document.EncodeJSON(runtimeDoc)
	if err != nil {
		return err
	}
	routing := proxyrules.Derive(runtimeJSON)
	rendered, err := routing.Caddyfile(proxyrules.RenderOptions{
		Listen:       p.settings.ProxyListen,
		Upstream:     p.settings.Upstream,
		User:         p.settings.BasicAuthUser,
		GatewayToken: token,
	})
	if err != nil {
		return err
	}
	if err := writeProxyConfig(p.settings.ProxyConfigPath, rendered); err != nil {
		return err
	}
	log.Info("proxy routes derived",
		"path", p.settings.ProxyConfigPath,
		"bypass_paths", routing.BypassPaths())

	skipDoctor, err := cmd.Flags().GetBool("skip-doctor")
	if err != nil {
		return err
	}
	if skipDoctor || p.settings.SkipDoctor {
		return nil
	}
	return runDoctor(cmd, p.settings.AgentBin)
}

func writeProxyConfig(path, rendered string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create proxy config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
		return fmt.Errorf("write proxy config %s: %w", path, err)
	}
	return nil
}

// runDoctor invokes the agent's own channel-normalization maintenance
// operation after synthesis and before the proxy starts.
func runDoctor(cmd *cobra.Command, agentBin string) error {
	doctor := exec.CommandContext(cmd.Context(), agentBin, "doctor", "--fix-channels")
	doctor.Stdout = cmd.OutOrStdout()
	doctor.Stderr = cmd.ErrOrStderr()
	if err := doctor.Run(); err != nil {
		return fmt.Errorf("agent doctor --fix-channels: %w", err)
	}
	return nil
}
