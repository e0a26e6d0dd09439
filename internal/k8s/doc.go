// Package k8s is the narrow boundary between the transform orchestrator and
// the Kubernetes control plane.
//
// It wraps k8s.io/client-go behind the [Client] interface, exposing only the
// Deployment, HorizontalPodAutoscaler and ConfigMap calls the lifecycle
// manager needs. Errors from the API server are returned unchanged; retry
// policy belongs to the caller.
package k8s
