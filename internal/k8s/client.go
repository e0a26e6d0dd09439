package k8s

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Client provides the Kubernetes operations used to run transform workers.
// All calls are synchronous and return API server errors unchanged.
type Client interface {
	CreateDeployment(ctx context.Context, namespace string, deployment *appsv1.Deployment) (*appsv1.Deployment, error)
	DeleteDeployment(ctx context.Context, namespace, name string) error
	// ListDeployments returns every Deployment in the namespace.
	ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error)

	CreateAutoscaler(ctx context.Context, namespace string, hpa *autoscalingv1.HorizontalPodAutoscaler) (*autoscalingv1.HorizontalPodAutoscaler, error)
	DeleteAutoscaler(ctx context.Context, namespace, name string) error

	CreateConfigMap(ctx context.Context, namespace string, cm *corev1.ConfigMap) (*corev1.ConfigMap, error)
	DeleteConfigMap(ctx context.Context, namespace, name string) error
}

// client implements the Client interface using k8s.io/client-go.
type client struct {
	clientset kubernetes.Interface
}

// type check: client implements Client
var _ Client = &client{}

// Credential loaders, replaceable in tests.
var (
	inClusterConfig = rest.InClusterConfig
	externalConfig  = loadKubeconfig
)

// New creates a Client for the named credential mode.
//
// An unrecognized mode is a configuration error and no credentials are read.
// For the external mode kubeconfigPath may be empty, in which case $KUBECONFIG
// and then ~/.kube/config are used.
func New(mode string, kubeconfigPath string) (Client, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return NewForMode(m, kubeconfigPath)
}

// NewForMode creates a Client for an already parsed mode.
func NewForMode(mode Mode, kubeconfigPath string) (Client, error) {
	var (
		restConfig *rest.Config
		err        error
	)
	switch mode {
	case ModeInCluster:
		restConfig, err = inClusterConfig()
	case ModeExternal:
		restConfig, err = externalConfig(kubeconfigPath)
	default:
		return nil, fmt.Errorf("unsupported kubernetes mode %s", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s credentials: %w", mode, err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	return &client{clientset: clientset}, nil
}

// NewFromClientset creates a Client from a pre-configured clientset.
// This is useful for testing with fake clients.
func NewFromClientset(clientset kubernetes.Interface) Client {
	return &client{clientset: clientset}
}

// loadKubeconfig resolves a kubeconfig the same way kubectl does when path is empty.
func loadKubeconfig(path string) (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
}

func (c *client) CreateDeployment(ctx context.Context, namespace string, deployment *appsv1.Deployment) (*appsv1.Deployment, error) {
	return c.clientset.AppsV1().Deployments(namespace).Create(ctx, deployment, metav1.CreateOptions{})
}

func (c *client) DeleteDeployment(ctx context.Context, namespace, name string) error {
	foreground := metav1.DeletePropagationForeground
	return c.clientset.AppsV1().Deployments(namespace).Delete(ctx, name, metav1.DeleteOptions{
		PropagationPolicy: &foreground,
	})
}

func (c *client) ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	list, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *client) CreateAutoscaler(ctx context.Context, namespace string, hpa *autoscalingv1.HorizontalPodAutoscaler) (*autoscalingv1.HorizontalPodAutoscaler, error) {
	return c.clientset.AutoscalingV1().HorizontalPodAutoscalers(namespace).Create(ctx, hpa, metav1.CreateOptions{})
}

func (c *client) DeleteAutoscaler(ctx context.Context, namespace, name string) error {
	return c.clientset.AutoscalingV1().HorizontalPodAutoscalers(namespace).Delete(ctx, name, metav1.DeleteOptions{})
}

func (c *client) CreateConfigMap(ctx context.Context, namespace string, cm *corev1.ConfigMap) (*corev1.ConfigMap, error) {
	return c.clientset.CoreV1().ConfigMaps(namespace).Create(ctx, cm, metav1.CreateOptions{})
}

func (c *client) DeleteConfigMap(ctx context.Context, namespace, name string) error {
	return c.clientset.CoreV1().ConfigMaps(namespace).Delete(ctx, name, metav1.DeleteOptions{})
}
