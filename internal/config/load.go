package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LookupFunc looks up an environment variable; os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration from defaults, the optional YAML file at path,
// and the environment, in that order, and validates the result.
func Load(path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if lookup != nil {
		if err := ApplyEnv(&cfg, lookup); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds the configuration from defaults and the process environment.
func FromEnv() (*Config, error) {
	return Load("", os.LookupEnv)
}

// decodeFile overlays the YAML file onto cfg. Keys missing from the file keep
// their current value, so autoscaling stays enabled unless the file says otherwise.
func decodeFile(path string, cfg *Config) error {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with every recognized variable that lookup knows about.
// KUBECONFIG is not one of them: it is a path list that the kubeconfig loader
// resolves itself, while cfg.Kubeconfig names a single explicit file.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvKubernetesMode, &cfg.KubernetesMode},
		{EnvCPULimit, &cfg.Worker.CPULimit},
		{EnvLocalPath, &cfg.Worker.LocalPath},
		{EnvObjectStoreURL, &cfg.ObjectStore.URL},
		{EnvObjectStoreAccessKey, &cfg.ObjectStore.AccessKey},
		{EnvObjectStoreSecretKey, &cfg.ObjectStore.SecretKey},
		{EnvObjectStoreRegion, &cfg.ObjectStore.Region},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int32
	}{
		{EnvCPUScaleThreshold, &cfg.Worker.CPUScaleThreshold},
		{EnvMinReplicas, &cfg.Worker.MinReplicas},
		{EnvMaxReplicas, &cfg.Worker.MaxReplicas},
	}
	for _, i := range ints {
		v, ok := lookup(i.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return NewError(i.key, fmt.Sprintf("%q is not an integer", v))
		}
		*i.dst = int32(n)
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvAutoscaleEnabled, &cfg.Worker.AutoscaleEnabled},
		{EnvObjectStoreEnabled, &cfg.ObjectStore.Enabled},
		{EnvObjectStoreUseTLS, &cfg.ObjectStore.UseTLS},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return NewError(b.key, fmt.Sprintf("%q is not a boolean", v))
		}
		*b.dst = parsed
	}

	return nil
}
