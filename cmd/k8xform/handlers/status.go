package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	appsv1 "k8s.io/api/apps/v1"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/transformer"
	"github.com/imamik/k8xform/internal/util/naming"
	"github.com/imamik/k8xform/internal/util/retry"
)

// StatusOptions select the request to report on and how.
type StatusOptions struct {
	RequestID string
	Namespace string

	// Wait polls until every worker replica is available or Timeout passes.
	Wait    bool
	Timeout time.Duration

	JSON bool
}

// StatusReport is the status of one request's workers.
type StatusReport struct {
	RequestID         string            `json:"requestId"`
	Namespace         string            `json:"namespace"`
	Deployment        string            `json:"deployment"`
	Phase             transformer.Phase `json:"phase"`
	Ready             bool              `json:"ready"`
	Replicas          int32             `json:"replicas"`
	UpdatedReplicas   int32             `json:"updatedReplicas"`
	ReadyReplicas     int32             `json:"readyReplicas"`
	AvailableReplicas int32             `json:"availableReplicas"`
}

func newStatusReport(requestID, namespace string, status *appsv1.DeploymentStatus, found bool) *StatusReport {
	report := &StatusReport{
		RequestID:  requestID,
		Namespace:  namespace,
		Deployment: naming.Deployment(requestID),
		Phase:      transformer.PhaseOf(status, found),
	}
	if found && status != nil {
		report.Ready = transformer.IsReady(status)
		report.Replicas = status.Replicas
		report.UpdatedReplicas = status.UpdatedReplicas
		report.ReadyReplicas = status.ReadyReplicas
		report.AvailableReplicas = status.AvailableReplicas
	}
	return report
}

// waitPollOptions set the polling pace of status --wait. The deadline comes
// from the context.
var waitPollOptions = []retry.Option{
	retry.WithMaxAttempts(math.MaxInt32),
	retry.WithInitialDelay(time.Second),
	retry.WithMaxDelay(10 * time.Second),
}

// isTerminal reports whether output goes to an interactive terminal.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Status handles the status command.
func Status(ctx context.Context, g Global, o StatusOptions) error {
	if o.RequestID == "" {
		return config.NewError("request-id", "is required")
	}
	_, manager, err := newManager(g)
	if err != nil {
		return err
	}
	defer flushMetrics(ctx, g, o.RequestID)

	if o.Wait {
		waitCtx, cancel := context.WithTimeout(ctx, o.Timeout)
		defer cancel()

		err := retry.Until(waitCtx, func(ctx context.Context) (bool, error) {
			status, found, err := manager.Status(ctx, o.RequestID, o.Namespace)
			if err != nil {
				return false, err
			}
			return found && transformer.IsReady(status), nil
		}, waitPollOptions...)
		if err != nil {
			return fmt.Errorf("transformer %s did not become ready: %w", o.RequestID, err)
		}
	}

	status, found, err := manager.Status(ctx, o.RequestID, o.Namespace)
	if err != nil {
		return fmt.Errorf("failed to get status of transformer %s: %w", o.RequestID, err)
	}
	report := newStatusReport(o.RequestID, o.Namespace, status, found)

	if o.JSON {
		return printStatusJSON(report)
	}
	fmt.Fprint(stdout, renderStatus(report, isTerminal()))
	return nil
}

func printStatusJSON(report *StatusReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}
