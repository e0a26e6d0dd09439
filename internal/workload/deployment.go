package workload

import (
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/util/labels"
	"github.com/imamik/k8xform/internal/util/naming"
	"github.com/imamik/k8xform/internal/util/ptr"
)

// ContainerName is the name of the worker container.
const ContainerName = "transformer"

// Worker flags.
const (
	FlagRequestID         = "--request-id"
	FlagQueueURI          = "--rabbit-uri"
	FlagChunks            = "--chunks"
	FlagResultDestination = "--result-destination"
	FlagResultFormat      = "--result-format"
	FlagBrokerList        = "--brokerlist"
)

// Object store variables injected for the object-store destination. The
// MINIO_* names are kept for workers built against the older contract.
const (
	EnvObjectStoreURL       = "OBJECT_STORE_URL"
	EnvObjectStoreAccessKey = "OBJECT_STORE_ACCESS_KEY"
	EnvObjectStoreSecretKey = "OBJECT_STORE_SECRET_KEY"

	EnvMinioURL       = "MINIO_URL"
	EnvMinioAccessKey = "MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "MINIO_SECRET_KEY"
)

// Specs are the objects to create for one request.
type Specs struct {
	Deployment *appsv1.Deployment

	// Autoscaler is nil when autoscaling is disabled.
	Autoscaler *autoscalingv1.HorizontalPodAutoscaler
}

// Build derives the worker Deployment and, when autoscaling is enabled, its
// HorizontalPodAutoscaler. Invalid requests and settings fail with a
// configuration error.
func Build(req Request, cfg *config.Config) (*Specs, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cpu, err := cfg.Worker.CPUQuantity()
	if err != nil {
		return nil, err
	}

	vols, mounts := volumes(req, ResolveAuxiliaryMount(req, cfg.Worker))

	container := corev1.Container{
		Name:            ContainerName,
		Image:           req.Image,
		ImagePullPolicy: corev1.PullAlways,
		Args:            Args(req),
		Env:             Env(req, cfg.ObjectStore),
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{corev1.ResourceCPU: cpu},
		},
		VolumeMounts: mounts,
	}

	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Deployment(req.RequestID),
			Namespace: req.Namespace,
			Labels: labels.NewLabelBuilder(req.RequestID).
				WithComponent(labels.ComponentTransformer).
				WithApp(req.RequestID).
				Build(),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.Int32(Replicas(req, cfg.Worker)),
			Selector: &metav1.LabelSelector{MatchLabels: labels.Selector(req.RequestID)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels.NewLabelBuilder(req.RequestID).
						WithComponent(labels.ComponentTransformer).
						WithApp(req.RequestID).
						Build(),
				},
				Spec: corev1.PodSpec{
					Containers:    []corev1.Container{container},
					Volumes:       vols,
					RestartPolicy: corev1.RestartPolicyAlways,
				},
			},
		},
	}

	specs := &Specs{Deployment: deployment}
	if cfg.Worker.AutoscaleEnabled {
		specs.Autoscaler = Autoscaler(req, cfg.Worker)
	}
	return specs, nil
}

// Replicas is the launch replica count. With autoscaling the autoscaler owns
// scaling, so workers start at its floor.
func Replicas(req Request, worker config.WorkerConfig) int32 {
	if worker.AutoscaleEnabled {
		return worker.MinReplicas
	}
	return req.Workers
}

// Args renders the worker command line as flag/value pairs. Optional flags
// without a value are left out.
func Args(req Request) []string {
	args := []string{
		FlagRequestID, req.RequestID,
		FlagQueueURI, req.QueueURI,
		FlagChunks, strconv.Itoa(req.ChunkSize),
		FlagResultDestination, string(req.Destination),
	}
	if req.ResultFormat != "" {
		args = append(args, FlagResultFormat, req.ResultFormat)
	}
	if req.Destination == DestinationStream && req.StreamBroker != "" {
		args = append(args, FlagBrokerList, req.StreamBroker)
	}
	return args
}

// Env returns the object store connection variables for requests that write
// to an enabled object store, and nothing otherwise.
func Env(req Request, store config.ObjectStoreConfig) []corev1.EnvVar {
	if req.Destination != DestinationObjectStore || !store.Enabled {
		return nil
	}
	return []corev1.EnvVar{
		{Name: EnvObjectStoreURL, Value: store.URL},
		{Name: EnvObjectStoreAccessKey, Value: store.AccessKey},
		{Name: EnvObjectStoreSecretKey, Value: store.SecretKey},
		{Name: EnvMinioURL, Value: store.URL},
		{Name: EnvMinioAccessKey, Value: store.AccessKey},
		{Name: EnvMinioSecretKey, Value: store.SecretKey},
	}
}

// Autoscaler builds the HorizontalPodAutoscaler for a request's Deployment.
func Autoscaler(req Request, worker config.WorkerConfig) *autoscalingv1.HorizontalPodAutoscaler {
	return &autoscalingv1.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Autoscaler(req.RequestID),
			Namespace: req.Namespace,
			Labels: labels.NewLabelBuilder(req.RequestID).
				WithComponent(labels.ComponentAutoscaler).
				Build(),
		},
		Spec: autoscalingv1.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv1.CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       naming.Deployment(req.RequestID),
			},
			MinReplicas:                    ptr.Int32(worker.MinReplicas),
			MaxReplicas:                    worker.MaxReplicas,
			TargetCPUUtilizationPercentage: ptr.Int32(worker.CPUScaleThreshold),
		},
	}
}
