package transformer

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/k8s"
	"github.com/imamik/k8xform/internal/workload"
)

const testNamespace = "my-ns"

func testRequest() workload.Request {
	return workload.Request{
		RequestID:      "1234",
		Namespace:      testNamespace,
		Image:          "sslhep/servicex-transformer:pytest",
		Workers:        17,
		ChunkSize:      5000,
		QueueURI:       "amqp://test.com",
		Destination:    workload.DestinationObjectStore,
		ResultFormat:   "parquet",
		SecuritySecret: "x509",
	}
}

func testConfig(autoscale bool) *config.Config {
	cfg := config.Default()
	cfg.Worker.MinReplicas = 3
	cfg.Worker.MaxReplicas = 17
	cfg.Worker.AutoscaleEnabled = autoscale
	cfg.ObjectStore.Enabled = true
	cfg.ObjectStore.URL = "minio:9000"
	return &cfg
}

func newTestManager(t *testing.T, cfg *config.Config, objects ...runtime.Object) (*Manager, *fake.Clientset) {
	t.Helper()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	fakeClientset := fake.NewSimpleClientset(objects...)
	m := NewManager(k8s.NewFromClientset(fakeClientset), cfg, WithLogger(testr.New(t)))
	return m, fakeClientset
}

// failOn makes every verb on resource fail with err.
func failOn(cs *fake.Clientset, verb, resource string, err error) {
	cs.PrependReactor(verb, resource, func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, err
	})
}

func verbsOn(cs *fake.Clientset, resource string) []string {
	var verbs []string
	for _, a := range cs.Actions() {
		if a.GetResource().Resource == resource {
			verbs = append(verbs, a.GetVerb())
		}
	}
	return verbs
}

func notFound(resource, name string) error {
	return apierrors.NewNotFound(schema.GroupResource{Resource: resource}, name)
}

func TestLaunch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, cs := newTestManager(t, testConfig(true))

	require.NoError(t, m.Launch(ctx, testRequest()))

	d, err := cs.AppsV1().Deployments(testNamespace).Get(ctx, "transformer-1234", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), *d.Spec.Replicas)

	container := d.Spec.Template.Spec.Containers[0]
	assert.Contains(t, container.Args, "parquet")
	var url string
	for _, e := range container.Env {
		if e.Name == workload.EnvObjectStoreURL {
			url = e.Value
		}
	}
	assert.Equal(t, "minio:9000", url)

	hpa, err := cs.AutoscalingV1().HorizontalPodAutoscalers(testNamespace).Get(ctx, "transformer-1234", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), *hpa.Spec.MinReplicas)
	assert.Equal(t, int32(17), hpa.Spec.MaxReplicas)
	assert.Equal(t, "transformer-1234", hpa.Spec.ScaleTargetRef.Name)
}

func TestLaunch_WithoutAutoscaling(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, cs := newTestManager(t, testConfig(false))

	require.NoError(t, m.Launch(ctx, testRequest()))

	d, err := cs.AppsV1().Deployments(testNamespace).Get(ctx, "transformer-1234", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(17), *d.Spec.Replicas)
	assert.Empty(t, verbsOn(cs, "horizontalpodautoscalers"), "no autoscaler call when autoscaling is off")
}

func TestLaunch_InvalidRequestMakesNoCalls(t *testing.T) {
	t.Parallel()
	m, cs := newTestManager(t, testConfig(true))

	req := testRequest()
	req.Destination = workload.DestinationStream
	req.StreamBroker = ""

	err := m.Launch(context.Background(), req)
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))
	assert.Empty(t, cs.Actions())
}

func TestLaunch_AlreadyExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestManager(t, testConfig(true))

	require.NoError(t, m.Launch(ctx, testRequest()))
	err := m.Launch(ctx, testRequest())
	assert.True(t, apierrors.IsAlreadyExists(err), "got %v", err)
}

func TestLaunch_DeploymentErrorPassesThrough(t *testing.T) {
	t.Parallel()
	m, cs := newTestManager(t, testConfig(true))
	boom := errors.New("connection refused")
	failOn(cs, "create", "deployments", boom)

	err := m.Launch(context.Background(), testRequest())
	assert.Same(t, boom, err)
	assert.Empty(t, verbsOn(cs, "horizontalpodautoscalers"))
}

func TestLaunch_AutoscalerFailureLeavesDeployment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, cs := newTestManager(t, testConfig(true))
	boom := errors.New("forbidden")
	failOn(cs, "create", "horizontalpodautoscalers", boom)

	err := m.Launch(ctx, testRequest())
	assert.Same(t, boom, err)

	_, getErr := cs.AppsV1().Deployments(testNamespace).Get(ctx, "transformer-1234", metav1.GetOptions{})
	assert.NoError(t, getErr, "deployment stays without rollback")
}

func TestLaunch_AutoscalerFailureRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	cs := fake.NewSimpleClientset()
	m := NewManager(k8s.NewFromClientset(cs), testConfig(true),
		WithLogger(testr.New(t)),
		WithRollbackOnPartialLaunch(true),
	)
	boom := errors.New("forbidden")
	failOn(cs, "create", "horizontalpodautoscalers", boom)

	err := m.Launch(ctx, testRequest())
	assert.Same(t, boom, err, "the autoscaler error is returned, not the rollback result")

	_, getErr := cs.AppsV1().Deployments(testNamespace).Get(ctx, "transformer-1234", metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(getErr))
}

func TestStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	running := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "transformer-1234", Namespace: testNamespace},
		Status:     appsv1.DeploymentStatus{Replicas: 3, AvailableReplicas: 2},
	}
	other := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "transformer-999", Namespace: testNamespace},
	}
	m, _ := newTestManager(t, testConfig(true), running, other)

	status, found, err := m.Status(ctx, "1234", testNamespace)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int32(3), status.Replicas)
	assert.Equal(t, int32(2), status.AvailableReplicas)
}

func TestStatus_NotFound(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, testConfig(true))

	status, found, err := m.Status(context.Background(), "1234", testNamespace)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, status)
}

func TestStatus_OtherNamespaceIsNotFound(t *testing.T) {
	t.Parallel()
	d := &appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: "transformer-1234", Namespace: "elsewhere"}}
	m, _ := newTestManager(t, testConfig(true), d)

	_, found, err := m.Status(context.Background(), "1234", testNamespace)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStatus_ListErrorPassesThrough(t *testing.T) {
	t.Parallel()
	m, cs := newTestManager(t, testConfig(true))
	boom := errors.New("timeout")
	failOn(cs, "list", "deployments", boom)

	_, found, err := m.Status(context.Background(), "1234", testNamespace)
	assert.Same(t, boom, err)
	assert.False(t, found)
}

func TestShutdown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, cs := newTestManager(t, testConfig(true))
	require.NoError(t, m.Launch(ctx, testRequest()))
	_, err := m.PackageGeneratedCode(ctx, zipArchive(t, map[string]string{"f.sh": "hi there"}), "1234", testNamespace)
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(ctx, "1234", testNamespace))

	_, err = cs.AppsV1().Deployments(testNamespace).Get(ctx, "transformer-1234", metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(err))
	_, err = cs.AutoscalingV1().HorizontalPodAutoscalers(testNamespace).Get(ctx, "transformer-1234", metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(err))
	_, err = cs.CoreV1().ConfigMaps(testNamespace).Get(ctx, "1234-generated-source", metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(err))
}

func TestShutdown_Idempotent(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, testConfig(true))

	// Nothing exists: every delete is NotFound and that is success.
	assert.NoError(t, m.Shutdown(context.Background(), "1234", testNamespace))
	assert.NoError(t, m.Shutdown(context.Background(), "1234", testNamespace))
}

func TestShutdown_AutoscalerFollowsCurrentConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		autoscale bool
		want      []string
	}{
		{name: "enabled", autoscale: true, want: []string{"delete"}},
		{name: "disabled", autoscale: false, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, cs := newTestManager(t, testConfig(tt.autoscale))

			require.NoError(t, m.Shutdown(context.Background(), "1234", testNamespace))
			assert.Equal(t, tt.want, verbsOn(cs, "horizontalpodautoscalers"))
			assert.Equal(t, []string{"delete"}, verbsOn(cs, "deployments"))
			assert.Equal(t, []string{"delete"}, verbsOn(cs, "configmaps"))
		})
	}
}

func TestShutdown_AttemptsEveryDeletion(t *testing.T) {
	t.Parallel()
	m, cs := newTestManager(t, testConfig(true))
	deployErr := errors.New("deployment delete refused")
	hpaErr := errors.New("hpa delete refused")
	failOn(cs, "delete", "deployments", deployErr)
	failOn(cs, "delete", "horizontalpodautoscalers", hpaErr)
	failOn(cs, "delete", "configmaps", notFound("configmaps", "1234-generated-source"))

	err := m.Shutdown(context.Background(), "1234", testNamespace)
	require.Error(t, err)
	assert.ErrorIs(t, err, deployErr)
	assert.ErrorIs(t, err, hpaErr)
	assert.False(t, apierrors.IsNotFound(err))

	assert.Equal(t, []string{"delete"}, verbsOn(cs, "configmaps"))
	assert.Equal(t, []string{"delete"}, verbsOn(cs, "horizontalpodautoscalers"))
}

func TestShutdown_SingleErrorUnchanged(t *testing.T) {
	t.Parallel()
	m, cs := newTestManager(t, testConfig(false))
	boom := errors.New("connection reset")
	failOn(cs, "delete", "configmaps", boom)

	err := m.Shutdown(context.Background(), "1234", testNamespace)
	assert.Same(t, boom, err)
}

// zipArchive builds an in-memory archive.
func zipArchive(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return r
}

func TestPackageGeneratedCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, cs := newTestManager(t, testConfig(true))

	artifact, err := m.PackageGeneratedCode(ctx, zipArchive(t, map[string]string{"f.sh": "hi there"}), "my-request", "servicex")
	require.NoError(t, err)
	assert.Equal(t, "my-request-generated-source", artifact.Name)
	assert.Equal(t, "servicex", artifact.Namespace)
	assert.Equal(t, map[string]string{"f.sh": "aGkgdGhlcmU="}, artifact.Files)

	cm, err := cs.CoreV1().ConfigMaps("servicex").Get(ctx, "my-request-generated-source", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("hi there"), cm.BinaryData["f.sh"])
}

func TestPackageGeneratedCode_RemoteErrorPassesThrough(t *testing.T) {
	t.Parallel()
	m, cs := newTestManager(t, testConfig(true))
	tooLarge := apierrors.NewRequestEntityTooLargeError("limit is 1048576")
	failOn(cs, "create", "configmaps", tooLarge)

	artifact, err := m.PackageGeneratedCode(context.Background(), zipArchive(t, map[string]string{"big.bin": "x"}), "1234", testNamespace)
	assert.Nil(t, artifact)
	assert.Same(t, tooLarge, err)
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	m := NewManager(k8s.NewFromClientset(fake.NewSimpleClientset()), testConfig(true))
	assert.Nil(t, m.logger.GetSink())
	assert.NotPanics(t, func() {
		_, _, _ = m.Status(context.Background(), "1234", testNamespace)
	})
}
