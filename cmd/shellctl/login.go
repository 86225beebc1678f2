package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cwms_shell/internal/login"
)

type loginDecision struct {
	Origin    string `json:"origin"`
	ShowLogin bool   `json:"showLogin"`
	LoginURL  string `json:"loginUrl,omitempty"`
}

func newLoginCmd(opts *options) *cobra.Command {
	gate := login.DefaultGate

	cmd := &cobra.Command{
		Use:   "login <origin>",
		Short: "Report whether the login control is offered on an origin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := loginDecision{Origin: args[0], ShowLogin: gate.ShouldShowLogin(args[0])}
			if res.ShowLogin {
				res.LoginURL = login.RedirectURL(args[0] + "/")
			}
			return opts.emit(cmd.OutOrStdout(), res, func(w io.Writer) {
				if !res.ShowLogin {
					fmt.Fprintf(w, "%s: login hidden\n", res.Origin)
					return
				}
				fmt.Fprintf(w, "%s: login shown -> %s\n", res.Origin, res.LoginURL)
			})
		},
	}
	cmd.Flags().StringVar(&gate.DomainMarker, "domain-marker", gate.DomainMarker, "Domain marker, matched case-insensitively")
	cmd.Flags().StringVar(&gate.LocalMarker, "local-marker", gate.LocalMarker, "Local host marker")
	return cmd
}
