package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cwms_shell/internal/breadcrumb"
	"cwms_shell/internal/location"
)

func newBreadcrumbsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "breadcrumbs <path-or-url>",
		Short: "Derive the breadcrumb trail for a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := location.FromURL(args[0])
			crumbs := breadcrumb.Derive(nav.Pathname(), nav.BasePath())
			return opts.emit(cmd.OutOrStdout(), crumbs, func(w io.Writer) {
				if len(crumbs) == 0 {
					fmt.Fprintln(w, "(no breadcrumbs)")
					return
				}
				for _, c := range crumbs {
					fmt.Fprintf(w, "%s\t%s\n", c.Label, c.Href)
				}
			})
		},
	}
}
