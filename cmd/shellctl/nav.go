package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cwms_shell/internal/navigation"
)

func newNavCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Print the navigation menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.lookup()
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), d.Nav, func(w io.Writer) {
				d.Nav.Walk(func(parent *navigation.NavLink, link navigation.NavLink) bool {
					indent := ""
					if parent != nil {
						indent = "  "
					}
					fmt.Fprintf(w, "%s%s [%s] %s\n", indent, link.Text, link.ID, link.Href)
					return true
				})
			})
		},
	}
}
