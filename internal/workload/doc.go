// Package workload builds the Kubernetes objects that run one transform
// request: the worker Deployment, its HorizontalPodAutoscaler and the
// ConfigMap carrying generated worker code.
//
// Everything here is a pure function of a [Request] and the deployment
// configuration. Nothing talks to the cluster; see package transformer for
// the lifecycle that submits these objects.
package workload
