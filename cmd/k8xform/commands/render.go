package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/k8xform/cmd/k8xform/handlers"
)

// Render returns the render command.
func Render(global *handlers.Global) *cobra.Command {
	var opts handlers.LaunchOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the manifests launch would create",
		Long: `Render prints the worker Deployment and HorizontalPodAutoscaler for a
transform request as YAML without contacting the cluster.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), *global, opts)
		},
	}

	bindRequestFlags(cmd, &opts)

	return cmd
}
