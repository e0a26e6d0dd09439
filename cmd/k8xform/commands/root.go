// Package commands defines the CLI command structure and flag bindings.
//
// Commands parse arguments and flags and delegate execution to the handlers
// package.
package commands

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/imamik/k8xform/cmd/k8xform/handlers"
)

// Root returns the root command for the k8xform CLI.
//
// Persistent flags select the configuration file, the kubeconfig and the
// logger. The logger is installed before any subcommand runs and is handed to
// handlers through the command context.
func Root() *cobra.Command {
	var global handlers.Global

	opts := zap.Options{
		Development: os.Getenv("DEBUG") == "true",
	}
	zapFlags := flag.NewFlagSet("zap", flag.ContinueOnError)
	opts.BindFlags(zapFlags)

	cmd := &cobra.Command{
		Use:           "k8xform",
		Short:         "Run transform worker pools on Kubernetes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
			cmd.SetContext(log.IntoContext(cmd.Context(), ctrl.Log.WithName("k8xform")))
		},
	}

	cmd.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "", "Path to configuration file (settings from the environment take precedence)")
	cmd.PersistentFlags().StringVar(&global.Kubeconfig, "kubeconfig", "", "Path to kubeconfig for the external mode (default: $KUBECONFIG or ~/.kube/config)")
	cmd.PersistentFlags().StringVar(&global.PushGateway, "pushgateway", "", "Prometheus Pushgateway URL to push operation metrics to")
	cmd.PersistentFlags().AddGoFlagSet(zapFlags)

	cmd.AddCommand(Launch(&global))
	cmd.AddCommand(Status(&global))
	cmd.AddCommand(Shutdown(&global))
	cmd.AddCommand(Package(&global))
	cmd.AddCommand(Render(&global))
	cmd.AddCommand(Version())

	return cmd
}
