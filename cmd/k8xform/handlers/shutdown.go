package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/util/naming"
)

// Shutdown handles the shutdown command.
//
// It removes the request's worker Deployment, generated-code ConfigMap and
// autoscaler. Running it for a request that is already gone succeeds.
func Shutdown(ctx context.Context, g Global, requestID, namespace string) error {
	if requestID == "" {
		return config.NewError("request-id", "is required")
	}

	_, manager, err := newManager(g)
	if err != nil {
		return err
	}
	defer flushMetrics(ctx, g, requestID)

	if err := manager.Shutdown(ctx, requestID, namespace); err != nil {
		return fmt.Errorf("failed to shut down transformer %s: %w", requestID, err)
	}

	fmt.Fprintf(stdout, "Shut down %s in namespace %s\n", naming.Deployment(requestID), namespace)
	return nil
}
