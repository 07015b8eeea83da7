package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentcrate/agentcrate/engine/layer"
	"github.com/agentcrate/agentcrate/engine/layer/definition"
	"github.com/agentcrate/agentcrate/engine/provider"
	"github.com/agentcrate/agentcrate/engine/synth"
	"github.com/agentcrate/agentcrate/pkg/settings"
	"github.com/agentcrate/agentcrate/pkg/state"
)

// pass bundles the collaborators of one synthesis pass.
type pass struct {
	settings    *settings.Settings
	store       *state.Store
	loader      *layer.Loader
	synthesizer *synth.Synthesizer
}

// addPathFlags registers the flag overrides shared by the synthesis-facing
// commands.
func addPathFlags(cmd *cobra.Command) {
	cmd.Flags().String("custom-config", "", "Path of the deployer-authored config document")
	cmd.Flags().String("state-dir", "", "Durable state directory")
	cmd.Flags().String("proxy-config", "", "Output path of the rendered proxy config")
}

// collectOverrides turns set flags into a partial Settings overlay.
func collectOverrides(cmd *cobra.Command) (*settings.Settings, error) {
	overrides := &settings.Settings{}
	var err error
	if overrides.CustomConfigPath, err = cmd.Flags().GetString("custom-config"); err != nil {
		return nil, err
	}
	if overrides.StateDir, err = cmd.Flags().GetString("state-dir"); err != nil {
		return nil, err
	}
	if overrides.ProxyConfigPath, err = cmd.Flags().GetString("proxy-config"); err != nil {
		return nil, err
	}
	return overrides, nil
}

// newPass loads settings and wires the synthesis collaborators.
func newPass(ctx context.Context, cmd *cobra.Command) (*pass, error) {
	overrides, err := collectOverrides(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := settings.NewLoader().Load(ctx, overrides)
	if err != nil {
		return nil, err
	}
	registry := definition.CreateRegistry()
	store := state.NewStore(cfg.RuntimeConfigPath())
	loader := layer.NewLoader(registry, cfg.CustomConfigPath, store, os.LookupEnv)
	classifier := provider.NewClassifier(os.LookupEnv)
	return &pass{
		settings:    cfg,
		store:       store,
		loader:      loader,
		synthesizer: synth.New(registry, classifier, store),
	}, nil
}
