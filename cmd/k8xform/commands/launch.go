package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/k8xform/cmd/k8xform/handlers"
)

// bindRequestFlags binds the flags describing a transform request.
func bindRequestFlags(cmd *cobra.Command, o *handlers.LaunchOptions) {
	cmd.Flags().StringVar(&o.RequestID, "request-id", "", "Transform request id (required)")
	cmd.Flags().StringVarP(&o.Namespace, "namespace", "n", "default", "Namespace to run workers in")
	cmd.Flags().StringVar(&o.Image, "image", "", "Worker container image (required)")
	cmd.Flags().Int32Var(&o.Workers, "workers", 1, "Worker replicas when autoscaling is disabled")
	cmd.Flags().IntVar(&o.ChunkSize, "chunk-size", 1000, "Events per chunk handed to the workers")
	cmd.Flags().StringVar(&o.QueueURI, "queue-uri", "", "Message broker URI the workers consume from (required)")
	cmd.Flags().StringVar(&o.Destination, "result-destination", "object-store", "Where results go: object-store, kafka or root")
	cmd.Flags().StringVar(&o.ResultFormat, "result-format", "", "Result file format, e.g. parquet or arrow")
	cmd.Flags().StringVar(&o.KafkaBroker, "kafka-broker", "", "Kafka broker list, required for the kafka destination")
	cmd.Flags().StringVar(&o.X509Secret, "x509-secret", "x509-proxy", "Secret holding the X.509 proxy")
	cmd.Flags().StringVar(&o.GeneratedCodeArchive, "generated-code", "", "Zip archive of generated worker code to mount at /generated")

	_ = cmd.MarkFlagRequired("request-id")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("queue-uri")
}

// Launch returns the launch command.
func Launch(global *handlers.Global) *cobra.Command {
	var opts handlers.LaunchOptions

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch the worker pool for a transform request",
		Long: `Launch creates the worker Deployment for a transform request and, when
autoscaling is enabled, a HorizontalPodAutoscaler for it.

For the object-store destination a bucket named after the request is created
first. With --generated-code the archive is packaged into a ConfigMap that
the workers mount at /generated.

Example:
  k8xform launch --request-id 1234 -n servicex \
    --image sslhep/servicex-transformer:latest \
    --queue-uri amqp://rabbit:5672 --workers 17 --result-format parquet`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Launch(cmd.Context(), *global, opts)
		},
	}

	bindRequestFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.RollbackOnFailure, "rollback-on-failure", false, "Delete the Deployment again if the autoscaler cannot be created")

	return cmd
}
