package labels

import "github.com/imamik/k8xform/internal/util/naming"

// Standard label keys for transform request resources.
const (
	// KeyApp is the pod selector key shared by a Deployment and its pods
	KeyApp = "app"

	// KeyRequestID identifies which transform request a resource belongs to
	KeyRequestID = "k8xform.io/request-id"

	// KeyComponent identifies the role of the resource (transformer, generated-code)
	KeyComponent = "k8xform.io/component"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "k8xform.io/managed-by"
)

// Component values
const (
	ComponentTransformer   = "transformer"
	ComponentGeneratedCode = "generated-code"
	ComponentAutoscaler    = "autoscaler"
)

// ManagedByK8xform is the KeyManagedBy value set on every resource.
const ManagedByK8xform = "k8xform"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the request id pre-set.
func NewLabelBuilder(requestID string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyRequestID: requestID,
			KeyManagedBy: ManagedByK8xform,
		},
	}
}

// WithComponent adds a component label.
func (lb *LabelBuilder) WithComponent(component string) *LabelBuilder {
	lb.labels[KeyComponent] = component
	return lb
}

// WithApp adds the pod selector label for the request's worker Deployment.
func (lb *LabelBuilder) WithApp(requestID string) *LabelBuilder {
	lb.labels[KeyApp] = naming.Deployment(requestID)
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector returns the pod selector labels for a request's workers.
func Selector(requestID string) map[string]string {
	return map[string]string{KeyApp: naming.Deployment(requestID)}
}
