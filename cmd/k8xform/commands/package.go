package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/k8xform/cmd/k8xform/handlers"
)

// Package returns the package command.
func Package(global *handlers.Global) *cobra.Command {
	var opts handlers.PackageOptions

	cmd := &cobra.Command{
		Use:   "package REQUEST_ID ARCHIVE",
		Short: "Store generated worker code in a ConfigMap",
		Long: `Package copies every file of a zip archive into the ConfigMap
<REQUEST_ID>-generated-source. Launch mounts it at /generated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.RequestID = args[0]
			opts.Archive = args[1]
			return handlers.Package(cmd.Context(), *global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "default", "Namespace the workers run in")

	return cmd
}
