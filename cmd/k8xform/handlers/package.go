package handlers

import (
	"context"

	"github.com/imamik/k8xform/internal/config"
)

// PackageOptions select the archive and the request it belongs to.
type PackageOptions struct {
	RequestID string
	Namespace string
	Archive   string
}

// Package handles the package command. It stores the archive's files in the
// request's generated-code ConfigMap without launching workers.
func Package(ctx context.Context, g Global, o PackageOptions) error {
	if o.RequestID == "" {
		return config.NewError("request-id", "is required")
	}
	_, manager, err := newManager(g)
	if err != nil {
		return err
	}
	defer flushMetrics(ctx, g, o.RequestID)

	return packageArchive(ctx, manager, o.Archive, o.RequestID, o.Namespace)
}
