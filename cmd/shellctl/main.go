package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cwms_shell/internal/deployment"
)

type options struct {
	deployment string
	format     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "shellctl",
		Short:         "Inspect the CWMS web shell",
		Long:          "Inspect routes, breadcrumbs, navigation and login visibility of a compiled deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.deployment, "deployment", "d", deployment.Selected, "Deployment to inspect")
	root.PersistentFlags().StringVar(&opts.format, "format", "human", "Output format (json, human)")

	root.AddCommand(
		newRoutesCmd(opts),
		newResolveCmd(opts),
		newBreadcrumbsCmd(opts),
		newNavCmd(opts),
		newLoginCmd(opts),
	)
	return root
}

func (o *options) lookup() (deployment.Deployment, error) {
	return deployment.Lookup(o.deployment)
}

// emit writes v as indented JSON, or calls human for the human format.
func (o *options) emit(w io.Writer, v interface{}, human func(io.Writer)) error {
	switch o.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "human":
		human(w)
		return nil
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
