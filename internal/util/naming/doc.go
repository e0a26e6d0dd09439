// Package naming provides the deterministic names of the cluster resources
// created for a transform request.
//
// Names are derived from the request id only, so the same request always maps
// to the same Deployment, HorizontalPodAutoscaler and generated-code ConfigMap.
// Cluster tooling scripts against these names; they must not change.
package naming
