package handlers

import (
	"context"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus/push"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/k8s"
	"github.com/imamik/k8xform/internal/transformer"
)

// Global holds the settings shared by every command.
type Global struct {
	// ConfigPath is an optional YAML configuration file.
	ConfigPath string

	// Kubeconfig overrides the kubeconfig path of the configuration.
	Kubeconfig string

	// PushGateway is the Prometheus Pushgateway that receives operation
	// metrics when set.
	PushGateway string
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = func(path string) (*config.Config, error) {
		return config.Load(path, os.LookupEnv)
	}

	newKubeClient = k8s.New

	pushMetrics = func(ctx context.Context, gateway, requestID string) error {
		return push.New(gateway, "k8xform").
			Gatherer(metrics.Registry).
			Grouping("request_id", requestID).
			PushContext(ctx)
	}

	stdout io.Writer = os.Stdout
)

// newManager loads the configuration and connects a lifecycle manager to
// the cluster it names.
func newManager(g Global, opts ...transformer.Option) (*config.Config, *transformer.Manager, error) {
	cfg, err := loadConfig(g.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	kubeconfig := cfg.Kubeconfig
	if g.Kubeconfig != "" {
		kubeconfig = g.Kubeconfig
	}
	client, err := newKubeClient(cfg.KubernetesMode, kubeconfig)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]transformer.Option{transformer.WithMetrics(g.PushGateway != "")}, opts...)
	return cfg, transformer.NewManager(client, cfg, opts...), nil
}

// flushMetrics pushes the recorded metrics when a gateway is configured.
// Push failures never fail the command.
func flushMetrics(ctx context.Context, g Global, requestID string) {
	if g.PushGateway == "" {
		return
	}
	if err := pushMetrics(ctx, g.PushGateway, requestID); err != nil {
		log.FromContext(ctx).Error(err, "failed to push metrics", "gateway", g.PushGateway)
	}
}
