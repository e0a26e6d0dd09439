package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "millicores", mutate: func(c *Config) { c.Worker.CPULimit = "250m" }},
		{name: "bad cpu", mutate: func(c *Config) { c.Worker.CPULimit = "lots" }, field: EnvCPULimit, wantErr: true},
		{name: "zero min", mutate: func(c *Config) { c.Worker.MinReplicas = 0 }, field: EnvMinReplicas, wantErr: true},
		{name: "max below min", mutate: func(c *Config) {
			c.Worker.MinReplicas = 5
			c.Worker.MaxReplicas = 4
		}, field: EnvMaxReplicas, wantErr: true},
		{name: "min equals max", mutate: func(c *Config) {
			c.Worker.MinReplicas = 4
			c.Worker.MaxReplicas = 4
		}},
		{name: "threshold zero", mutate: func(c *Config) { c.Worker.CPUScaleThreshold = 0 }, field: EnvCPUScaleThreshold, wantErr: true},
		{name: "threshold above 100", mutate: func(c *Config) { c.Worker.CPUScaleThreshold = 101 }, field: EnvCPUScaleThreshold, wantErr: true},
		{name: "object store without url", mutate: func(c *Config) { c.ObjectStore.Enabled = true }, field: EnvObjectStoreURL, wantErr: true},
		{name: "object store url unused when disabled", mutate: func(c *Config) { c.ObjectStore.URL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestCPUQuantity(t *testing.T) {
	t.Parallel()
	q, err := WorkerConfig{CPULimit: "4"}.CPUQuantity()
	require.NoError(t, err)
	assert.Equal(t, int64(4), q.Value())

	q, err = WorkerConfig{CPULimit: "500m"}.CPUQuantity()
	require.NoError(t, err)
	assert.Equal(t, int64(500), q.MilliValue())
}

func TestError(t *testing.T) {
	t.Parallel()
	err := NewError("WORKER_MIN_REPLICAS", "must be at least 1")
	assert.Equal(t, "invalid configuration: WORKER_MIN_REPLICAS: must be at least 1", err.Error())
	assert.True(t, IsConfigError(err))
	assert.False(t, IsConfigError(assert.AnError))
}
