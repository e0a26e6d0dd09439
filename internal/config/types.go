package config

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Config is the deployment configuration shared by all transform requests.
type Config struct {
	// KubernetesMode selects how cluster credentials are loaded
	// ("in-cluster" or "external").
	KubernetesMode string `yaml:"kubernetes_mode"`

	// Kubeconfig is an explicit kubeconfig path for the external mode. When
	// empty, the loader falls back to $KUBECONFIG and then ~/.kube/config.
	Kubeconfig string `yaml:"kubeconfig"`

	Worker      WorkerConfig      `yaml:"worker"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
}

// WorkerConfig controls the shape of every worker Deployment.
type WorkerConfig struct {
	// CPULimit is the cpu resource limit of a worker container, e.g. "1" or "500m".
	CPULimit string `yaml:"cpu_limit"`

	// CPUScaleThreshold is the target average CPU utilization percentage of the autoscaler.
	CPUScaleThreshold int32 `yaml:"cpu_scale_threshold"`

	MinReplicas int32 `yaml:"min_replicas"`
	MaxReplicas int32 `yaml:"max_replicas"`

	// AutoscaleEnabled attaches a HorizontalPodAutoscaler to each worker Deployment.
	// Defaults to true when not set.
	AutoscaleEnabled bool `yaml:"autoscale_enabled"`

	// LocalPath is a host directory mounted into workers at /data. Optional.
	LocalPath string `yaml:"local_path"`
}

// ObjectStoreConfig holds the S3-compatible store that receives results for
// the object-store destination.
type ObjectStoreConfig struct {
	Enabled   bool   `yaml:"enabled"`
	URL       string `yaml:"url"` // host:port as seen from the workers
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseTLS    bool   `yaml:"use_tls"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		KubernetesMode: DefaultKubernetesMode,
		Worker: WorkerConfig{
			CPULimit:          DefaultCPULimit,
			CPUScaleThreshold: DefaultCPUScaleThreshold,
			MinReplicas:       DefaultMinReplicas,
			MaxReplicas:       DefaultMaxReplicas,
			AutoscaleEnabled:  true,
		},
		ObjectStore: ObjectStoreConfig{
			Region: DefaultObjectStoreRegion,
		},
	}
}

// CPUQuantity parses the worker CPU limit.
func (w WorkerConfig) CPUQuantity() (resource.Quantity, error) {
	q, err := resource.ParseQuantity(w.CPULimit)
	if err != nil {
		return resource.Quantity{}, NewError(EnvCPULimit, fmt.Sprintf("%q is not a valid cpu quantity", w.CPULimit))
	}
	return q, nil
}
