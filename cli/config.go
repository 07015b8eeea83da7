package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/agentcrate/agentcrate/pkg/document"
)

// ConfigCmd groups configuration inspection subcommands.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection",
	}
	cmd.AddCommand(ConfigShowCmd())
	return cmd
}

// ConfigShowCmd prints the synthesized runtime document without persisting
// it, so a deployer can inspect what `up` would produce.
func ConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the synthesized runtime configuration",
		RunE:  runConfigShow,
	}
	addPathFlags(cmd)
	cmd.Flags().StringP("format", "f", "json", "Output format (json, yaml)")
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p, err := newPass(ctx, cmd)
	if err != nil {
		return err
	}
	layers, err := p.loader.Load(ctx)
	if err != nil {
		return err
	}
	runtimeDoc, _, err := p.synthesizer.Preview(ctx, layers)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "json":
		data, err := document.EncodeJSON(runtimeDoc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(pretty.Pretty(data)))
	case "yaml":
		data, err := document.EncodeYAML(runtimeDoc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		return fmt.Errorf("unsupported format %q (json, yaml)", format)
	}
	return nil
}
