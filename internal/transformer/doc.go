// Package transformer manages the lifecycle of the worker pool behind a
// transform request.
//
// A [Manager] launches the worker Deployment and its autoscaler, reports the
// live Deployment status, tears everything down again and packages generated
// worker code into a ConfigMap. It keeps no state of its own: the cluster is
// the source of truth, and every call is a synchronous round trip to it.
//
// Calls for different requests are independent and may run concurrently.
// Callers must serialize calls for the same request themselves.
package transformer
