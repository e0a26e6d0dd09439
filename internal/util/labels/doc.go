// Package labels provides consistent labeling for the Kubernetes resources
// created for a transform request.
//
// Labels use the k8xform.io domain prefix and follow a builder pattern for
// constructing label sets with the request id, component and manager
// identification. The plain "app" label is kept because worker pods are
// selected by it.
package labels
