package config

// Environment variables recognized by FromEnv.
const (
	EnvKubernetesMode       = "KUBERNETES_MODE"
	EnvCPULimit             = "WORKER_CPU_LIMIT"
	EnvCPUScaleThreshold    = "WORKER_CPU_SCALE_THRESHOLD"
	EnvMinReplicas          = "WORKER_MIN_REPLICAS"
	EnvMaxReplicas          = "WORKER_MAX_REPLICAS"
	EnvAutoscaleEnabled     = "WORKER_AUTOSCALE_ENABLED"
	EnvLocalPath            = "WORKER_LOCAL_PATH"
	EnvObjectStoreEnabled   = "OBJECT_STORE_ENABLED"
	EnvObjectStoreURL       = "OBJECT_STORE_URL"
	EnvObjectStoreAccessKey = "OBJECT_STORE_ACCESS_KEY"
	EnvObjectStoreSecretKey = "OBJECT_STORE_SECRET_KEY"
	EnvObjectStoreRegion    = "OBJECT_STORE_REGION"
	EnvObjectStoreUseTLS    = "OBJECT_STORE_USE_TLS"
)

// Defaults.
const (
	DefaultKubernetesMode    = "external"
	DefaultCPULimit          = "1"
	DefaultCPUScaleThreshold = 70
	DefaultMinReplicas       = 1
	DefaultMaxReplicas       = 20
	DefaultObjectStoreRegion = "us-east-1"
)
