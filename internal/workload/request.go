package workload

import (
	"fmt"

	"github.com/imamik/k8xform/internal/config"
)

// Destination is where workers deliver their results.
type Destination string

const (
	// DestinationObjectStore writes results to the S3-compatible object store.
	DestinationObjectStore Destination = "object-store"

	// DestinationStream publishes results to a Kafka broker.
	DestinationStream Destination = "kafka"

	// DestinationLocal writes result files to the worker's local volume.
	DestinationLocal Destination = "root"
)

// ParseDestination maps the caller's destination name onto a Destination.
func ParseDestination(s string) (Destination, error) {
	switch s {
	case "object-store", "minio", "s3":
		return DestinationObjectStore, nil
	case "kafka", "stream":
		return DestinationStream, nil
	case "root", "local", "volume":
		return DestinationLocal, nil
	default:
		return "", config.NewError("result-destination",
			fmt.Sprintf("unknown destination %q, expected object-store, kafka or root", s))
	}
}

// Request identifies one unit of transform work and everything the workers
// need to know about it.
type Request struct {
	// RequestID names every derived resource.
	RequestID string
	Namespace string
	Image     string

	// Workers is the replica count requested when autoscaling is off.
	Workers int32

	// ChunkSize is passed through to the workers untouched.
	ChunkSize int

	// QueueURI is the broker endpoint workers pull work items from.
	QueueURI string

	Destination  Destination
	ResultFormat string

	// StreamBroker is required for DestinationStream and ignored otherwise.
	StreamBroker string

	// SecuritySecret is the existing Secret holding the X.509 proxy.
	SecuritySecret string

	// GeneratedCode is the ConfigMap with generated worker code. Optional.
	GeneratedCode string
}

// Validate checks the request fields the builders rely on.
func (r Request) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"request-id", r.RequestID},
		{"namespace", r.Namespace},
		{"image", r.Image},
		{"queue-uri", r.QueueURI},
		{"x509-secret", r.SecuritySecret},
	}
	for _, f := range required {
		if f.value == "" {
			return config.NewError(f.field, "is required")
		}
	}

	if r.Workers < 1 {
		return config.NewError("workers", fmt.Sprintf("must be positive, got %d", r.Workers))
	}
	if r.ChunkSize < 1 {
		return config.NewError("chunk-size", fmt.Sprintf("must be positive, got %d", r.ChunkSize))
	}

	switch r.Destination {
	case DestinationObjectStore, DestinationLocal:
	case DestinationStream:
		if r.StreamBroker == "" {
			return config.NewError("kafka-broker", "is required for the kafka result destination")
		}
	default:
		return config.NewError("result-destination", fmt.Sprintf("unknown destination %q", r.Destination))
	}

	return nil
}
