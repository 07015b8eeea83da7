package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentcrate/agentcrate/engine/proxyrules"
)

// RoutesCmd prints the routing rules derived from the current persisted
// runtime document.
func RoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Show the proxy routing rules for the current runtime config",
		RunE:  runRoutes,
	}
	addPathFlags(cmd)
	return cmd
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	p, err := newPass(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	data, err := p.store.ReadBytes()
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("no runtime config at %s; run `agentcrate up` first", p.store.Path())
	}
	routing := proxyrules.Derive(data)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MATCH\tPOLICY")
	for _, rule := range routing.Rules {
		fmt.Fprintf(w, "%s\t%s\n", rule.Match, rule.Policy)
	}
	return w.Flush()
}
