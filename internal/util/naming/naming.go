package naming

import "fmt"

// Naming functions for transform request resources.

// Deployment returns the name of the worker Deployment for a request.
func Deployment(requestID string) string {
	return fmt.Sprintf("transformer-%s", requestID)
}

// Autoscaler returns the name of the HorizontalPodAutoscaler for a request.
// It is always the same as the Deployment it scales.
func Autoscaler(requestID string) string {
	return Deployment(requestID)
}

// GeneratedSource returns the name of the ConfigMap holding generated worker code.
func GeneratedSource(requestID string) string {
	return fmt.Sprintf("%s-generated-source", requestID)
}

// Bucket returns the object store bucket that receives a request's output.
func Bucket(requestID string) string {
	return requestID
}
