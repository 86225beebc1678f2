package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cwms_shell/internal/location"
	"cwms_shell/internal/routes"
)

func newRoutesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.lookup()
			if err != nil {
				return err
			}
			entries := d.Routes.Entries()
			return opts.emit(cmd.OutOrStdout(), entries, func(w io.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "%-32s %s\n", e.Pattern, e.Content)
				}
			})
		},
	}
}

type resolution struct {
	Path string        `json:"path"`
	Page routes.PageID `json:"page"`
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path-or-url>",
		Short: "Show which page a path resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.lookup()
			if err != nil {
				return err
			}
			nav := location.FromURL(args[0])
			res := resolution{Path: nav.Pathname(), Page: d.Routes.Resolve(nav.Pathname())}
			return opts.emit(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "%s -> %s\n", res.Path, res.Page)
			})
		},
	}
}
