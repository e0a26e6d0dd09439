package k8s

import (
	"fmt"

	"github.com/imamik/k8xform/internal/config"
)

// Mode selects how cluster credentials are loaded.
type Mode int

const (
	// ModeInCluster uses the service account mounted into the pod.
	ModeInCluster Mode = iota + 1

	// ModeExternal uses a kubeconfig file from outside the cluster.
	ModeExternal
)

// String returns the canonical name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeInCluster:
		return "in-cluster"
	case ModeExternal:
		return "external"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configured mode name into a Mode.
// Both the short names and the historical "*-kubernetes" names are accepted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "in-cluster", "internal-kubernetes":
		return ModeInCluster, nil
	case "external", "external-kubernetes":
		return ModeExternal, nil
	default:
		return 0, config.NewError(config.EnvKubernetesMode,
			fmt.Sprintf("unknown mode %q, expected in-cluster or external", s))
	}
}
