package config

import "fmt"

// Validate checks the configuration for errors that would produce an invalid
// worker Deployment or autoscaler.
func (c *Config) Validate() error {
	if _, err := c.Worker.CPUQuantity(); err != nil {
		return err
	}

	if c.Worker.MinReplicas < 1 {
		return NewError(EnvMinReplicas, fmt.Sprintf("must be at least 1, got %d", c.Worker.MinReplicas))
	}
	if c.Worker.MaxReplicas < c.Worker.MinReplicas {
		return NewError(EnvMaxReplicas, fmt.Sprintf("must not be below %s (%d), got %d",
			EnvMinReplicas, c.Worker.MinReplicas, c.Worker.MaxReplicas))
	}
	if c.Worker.CPUScaleThreshold < 1 || c.Worker.CPUScaleThreshold > 100 {
		return NewError(EnvCPUScaleThreshold, fmt.Sprintf("must be a percentage between 1 and 100, got %d", c.Worker.CPUScaleThreshold))
	}

	if c.ObjectStore.Enabled && c.ObjectStore.URL == "" {
		return NewError(EnvObjectStoreURL, "is required when the object store is enabled")
	}

	return nil
}
