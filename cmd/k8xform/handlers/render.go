package handlers

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/imamik/k8xform/internal/workload"
)

// Render handles the render command. It prints the manifests a launch would
// create, without contacting the cluster.
func Render(_ context.Context, g Global, o LaunchOptions) error {
	req, err := o.Request()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(g.ConfigPath)
	if err != nil {
		return err
	}

	specs, err := workload.Build(req, cfg)
	if err != nil {
		return err
	}

	specs.Deployment.APIVersion = "apps/v1"
	specs.Deployment.Kind = "Deployment"
	objects := []runtime.Object{specs.Deployment}
	if specs.Autoscaler != nil {
		specs.Autoscaler.APIVersion = "autoscaling/v1"
		specs.Autoscaler.Kind = "HorizontalPodAutoscaler"
		objects = append(objects, specs.Autoscaler)
	}

	for i, obj := range objects {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to render manifest: %w", err)
		}
		if i > 0 {
			fmt.Fprintln(stdout, "---")
		}
		fmt.Fprint(stdout, string(data))
	}
	return nil
}
