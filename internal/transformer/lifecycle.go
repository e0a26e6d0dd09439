package transformer

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/imamik/k8xform/internal/util/naming"
	"github.com/imamik/k8xform/internal/workload"
)

// Launch creates the worker Deployment for req and, when autoscaling is
// enabled, its HorizontalPodAutoscaler.
//
// Invalid requests fail with a configuration error before any cluster call.
// Cluster errors are returned unchanged. Launching an id that is already
// running fails with the API server's AlreadyExists error.
//
// If the Deployment is created but the autoscaler is not, the Deployment is
// left in place unless the Manager was built WithRollbackOnPartialLaunch.
func (m *Manager) Launch(ctx context.Context, req workload.Request) (err error) {
	start := time.Now()
	defer func() { m.recordOperation(opLaunch, resultOf(err), start) }()

	specs, err := workload.Build(req, m.cfg)
	if err != nil {
		return err
	}

	logger := m.log(ctx).WithValues("requestID", req.RequestID, "namespace", req.Namespace)

	deployment := specs.Deployment
	if _, err := m.client.CreateDeployment(ctx, req.Namespace, deployment); err != nil {
		logger.Error(err, "failed to create worker deployment", "deployment", deployment.Name)
		return err
	}
	logger.Info("created worker deployment",
		"deployment", deployment.Name,
		"replicas", *deployment.Spec.Replicas,
		"destination", req.Destination)

	if specs.Autoscaler == nil {
		return nil
	}

	hpa := specs.Autoscaler
	if _, err := m.client.CreateAutoscaler(ctx, req.Namespace, hpa); err != nil {
		logger.Error(err, "failed to create autoscaler", "autoscaler", hpa.Name)
		if m.rollbackOnPartialLaunch {
			m.rollback(ctx, logger, req.Namespace, deployment.Name)
		}
		return err
	}
	logger.Info("created autoscaler",
		"autoscaler", hpa.Name,
		"minReplicas", *hpa.Spec.MinReplicas,
		"maxReplicas", hpa.Spec.MaxReplicas)

	return nil
}

func (m *Manager) rollback(ctx context.Context, logger logr.Logger, namespace, deployment string) {
	if err := m.client.DeleteDeployment(ctx, namespace, deployment); err != nil && !apierrors.IsNotFound(err) {
		logger.Error(err, "failed to roll back worker deployment", "deployment", deployment)
		return
	}
	logger.Info("rolled back worker deployment", "deployment", deployment)
}

// Status returns the live status of the request's worker Deployment.
// found is false, with a nil error, when the namespace has no such Deployment.
func (m *Manager) Status(ctx context.Context, requestID, namespace string) (status *appsv1.DeploymentStatus, found bool, err error) {
	start := time.Now()
	defer func() {
		result := resultOf(err)
		if err == nil && !found {
			result = resultNotFound
		}
		m.recordOperation(opStatus, result, start)
	}()

	deployments, err := m.client.ListDeployments(ctx, namespace)
	if err != nil {
		return nil, false, err
	}

	name := naming.Deployment(requestID)
	for i := range deployments {
		if deployments[i].Name == name {
			s := deployments[i].Status
			return &s, true, nil
		}
	}

	m.log(ctx).V(1).Info("no worker deployment found", "requestID", requestID, "namespace", namespace)
	return nil, false, nil
}

type deletion struct {
	kind   string
	name   string
	delete func(ctx context.Context, namespace, name string) error
}

// Shutdown removes the request's worker Deployment, its generated-code
// ConfigMap and, if autoscaling is enabled in the current configuration, its
// autoscaler. Resources that are already gone are skipped, so Shutdown can be
// repeated. Every deletion is attempted; failures are returned together.
func (m *Manager) Shutdown(ctx context.Context, requestID, namespace string) (err error) {
	start := time.Now()
	defer func() { m.recordOperation(opShutdown, resultOf(err), start) }()

	logger := m.log(ctx).WithValues("requestID", requestID, "namespace", namespace)

	deletions := []deletion{
		{"deployment", naming.Deployment(requestID), m.client.DeleteDeployment},
		{"configMap", naming.GeneratedSource(requestID), m.client.DeleteConfigMap},
	}
	// Decided by the configuration now, not by what Launch created.
	if m.cfg.Worker.AutoscaleEnabled {
		deletions = append(deletions, deletion{"autoscaler", naming.Autoscaler(requestID), m.client.DeleteAutoscaler})
	}

	var errs []error
	for _, d := range deletions {
		err := d.delete(ctx, namespace, d.name)
		switch {
		case err == nil:
			logger.Info("deleted "+d.kind, d.kind, d.name)
		case apierrors.IsNotFound(err):
			logger.V(1).Info(d.kind+" already gone", d.kind, d.name)
		default:
			logger.Error(err, "failed to delete "+d.kind, d.kind, d.name)
			errs = append(errs, err)
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
