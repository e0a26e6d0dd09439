package transformer

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// Phase is the lifecycle position of a request as seen from the cluster.
// A terminated request is indistinguishable from one never launched.
type Phase string

const (
	PhaseAbsent    Phase = "Absent"
	PhaseLaunching Phase = "Launching"
	PhaseActive    Phase = "Active"
)

// PhaseOf derives the phase from the result of Manager.Status.
func PhaseOf(status *appsv1.DeploymentStatus, found bool) Phase {
	if !found || status == nil {
		return PhaseAbsent
	}
	if status.AvailableReplicas > 0 {
		return PhaseActive
	}
	return PhaseLaunching
}

// IsReady reports whether every replica the Deployment currently runs is
// updated and available. The autoscaler may change the replica count, so the
// observed count is compared rather than a fixed target.
func IsReady(status *appsv1.DeploymentStatus) bool {
	if status == nil || status.Replicas == 0 {
		return false
	}
	if status.UpdatedReplicas != status.Replicas {
		return false
	}
	if status.AvailableReplicas != status.Replicas {
		return false
	}

	for _, condition := range status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}

	return false
}
