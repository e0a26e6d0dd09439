package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/k8xform/cmd/k8xform/handlers"
)

// Status returns the status command.
func Status(global *handlers.Global) *cobra.Command {
	var opts handlers.StatusOptions

	cmd := &cobra.Command{
		Use:   "status REQUEST_ID",
		Short: "Show the worker status of a transform request",
		Long: `Status reports the phase and replica counts of a request's worker
Deployment. A request without a Deployment is reported as Absent.

Examples:
  # Show status
  k8xform status 1234 -n servicex

  # Wait up to five minutes for all workers to become available
  k8xform status 1234 -n servicex --wait --timeout 5m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.RequestID = args[0]
			return handlers.Status(cmd.Context(), *global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "default", "Namespace the workers run in")
	cmd.Flags().BoolVarP(&opts.Wait, "wait", "w", false, "Wait until every worker replica is available")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Minute, "How long --wait waits")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}
