package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range a.registry.List() {
				name := info.Name
				if len(info.Aliases) > 0 {
					name += " (" + strings.Join(info.Aliases, ", ") + ")"
				}
				fmt.Fprintf(a.out, "  %-28s %s\n", name, info.Description)
			}
			return nil
		},
	}
}
