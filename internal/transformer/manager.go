package transformer

import (
	"context"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/k8s"
)

// Manager provisions and decommissions transform workers.
type Manager struct {
	client k8s.Client
	cfg    *config.Config

	logger        logr.Logger
	enableMetrics bool

	// rollbackOnPartialLaunch deletes the Deployment again when the
	// autoscaler cannot be created.
	rollbackOnPartialLaunch bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Without it the logger is taken from the call's context.
func WithLogger(logger logr.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics enables recording of operation metrics.
func WithMetrics(enabled bool) Option {
	return func(m *Manager) {
		m.enableMetrics = enabled
	}
}

// WithRollbackOnPartialLaunch makes Launch delete the worker Deployment when
// the autoscaler cannot be created, instead of leaving it running unscaled.
func WithRollbackOnPartialLaunch(enabled bool) Option {
	return func(m *Manager) {
		m.rollbackOnPartialLaunch = enabled
	}
}

// NewManager creates a Manager over client. cfg is read on every call and
// must not be modified afterwards.
func NewManager(client k8s.Client, cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{client: client, cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) log(ctx context.Context) logr.Logger {
	if m.logger.GetSink() != nil {
		return m.logger
	}
	return log.FromContext(ctx)
}
