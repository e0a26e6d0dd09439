package workload

import (
	"archive/zip"
	"encoding/base64"
	"fmt"
	"io"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/util/labels"
	"github.com/imamik/k8xform/internal/util/naming"
)

// Artifact describes a packaged generated-code ConfigMap.
type Artifact struct {
	Name      string
	Namespace string

	// Files maps each archive entry to its base64 encoded content, as stored
	// in the ConfigMap's binaryData.
	Files map[string]string
}

// GeneratedSource packs every file of the archive into a ConfigMap named
// after the request. Entries are kept byte for byte; size limits are left to
// the API server.
func GeneratedSource(archive *zip.Reader, requestID, namespace string) (*corev1.ConfigMap, error) {
	if requestID == "" {
		return nil, config.NewError("request-id", "is required")
	}
	if namespace == "" {
		return nil, config.NewError("namespace", "is required")
	}

	data := make(map[string][]byte, len(archive.File))
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		data[f.Name] = content
	}

	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.GeneratedSource(requestID),
			Namespace: namespace,
			Labels: labels.NewLabelBuilder(requestID).
				WithComponent(labels.ComponentGeneratedCode).
				Build(),
		},
		BinaryData: data,
	}, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
	}
	return content, nil
}

// ArtifactFor returns the artifact view of a generated-code ConfigMap.
func ArtifactFor(cm *corev1.ConfigMap) *Artifact {
	files := make(map[string]string, len(cm.BinaryData))
	for name, content := range cm.BinaryData {
		files[name] = base64.StdEncoding.EncodeToString(content)
	}
	return &Artifact{
		Name:      cm.Name,
		Namespace: cm.Namespace,
		Files:     files,
	}
}
