package transformer

import (
	"archive/zip"
	"context"
	"time"

	"github.com/imamik/k8xform/internal/workload"
)

// PackageGeneratedCode stores the files of a generated-code archive in the
// request's ConfigMap and returns a description of what was stored.
// Oversized archives are rejected by the API server and that error is
// returned unchanged.
func (m *Manager) PackageGeneratedCode(ctx context.Context, archive *zip.Reader, requestID, namespace string) (artifact *workload.Artifact, err error) {
	start := time.Now()
	defer func() { m.recordOperation(opPackage, resultOf(err), start) }()

	cm, err := workload.GeneratedSource(archive, requestID, namespace)
	if err != nil {
		return nil, err
	}

	logger := m.log(ctx).WithValues("requestID", requestID, "namespace", namespace)
	if _, err := m.client.CreateConfigMap(ctx, namespace, cm); err != nil {
		logger.Error(err, "failed to create generated-code config map", "configMap", cm.Name)
		return nil, err
	}
	logger.Info("created generated-code config map", "configMap", cm.Name, "files", len(cm.BinaryData))

	return workload.ArtifactFor(cm), nil
}
