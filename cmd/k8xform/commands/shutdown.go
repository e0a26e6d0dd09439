package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/k8xform/cmd/k8xform/handlers"
)

// Shutdown returns the shutdown command.
func Shutdown(global *handlers.Global) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "shutdown REQUEST_ID",
		Short: "Remove the worker pool of a transform request",
		Long: `Shutdown deletes the worker Deployment, the generated-code ConfigMap and,
when autoscaling is enabled, the HorizontalPodAutoscaler of a request.

Resources that no longer exist are skipped, so shutdown can be repeated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Shutdown(cmd.Context(), *global, args[0], namespace)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace the workers run in")

	return cmd
}
