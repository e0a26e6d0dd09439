package handlers

import (
	"archive/zip"
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/objectstore"
	"github.com/imamik/k8xform/internal/transformer"
	"github.com/imamik/k8xform/internal/util/naming"
	"github.com/imamik/k8xform/internal/util/retry"
	"github.com/imamik/k8xform/internal/workload"
)

// LaunchOptions describe one transform request on the command line.
type LaunchOptions struct {
	RequestID   string
	Namespace   string
	Image       string
	Workers     int32
	ChunkSize   int
	QueueURI    string
	Destination string

	ResultFormat string
	KafkaBroker  string
	X509Secret   string

	// GeneratedCodeArchive is a zip of generated worker code to package
	// and mount before launch. Optional.
	GeneratedCodeArchive string

	RollbackOnFailure bool
}

// Request converts the options into a validated transform request.
func (o LaunchOptions) Request() (workload.Request, error) {
	dest, err := workload.ParseDestination(o.Destination)
	if err != nil {
		return workload.Request{}, err
	}

	req := workload.Request{
		RequestID:      o.RequestID,
		Namespace:      o.Namespace,
		Image:          o.Image,
		Workers:        o.Workers,
		ChunkSize:      o.ChunkSize,
		QueueURI:       o.QueueURI,
		Destination:    dest,
		ResultFormat:   o.ResultFormat,
		StreamBroker:   o.KafkaBroker,
		SecuritySecret: o.X509Secret,
	}
	if o.GeneratedCodeArchive != "" {
		req.GeneratedCode = naming.GeneratedSource(o.RequestID)
	}

	if err := req.Validate(); err != nil {
		return workload.Request{}, err
	}
	return req, nil
}

// bucketEnsurer is the part of the object store client used by launch.
type bucketEnsurer interface {
	EnsureBucket(ctx context.Context, bucket string) (bool, error)
}

// Factory function variables for launch - can be replaced in tests.
var (
	newObjectStore = func(ctx context.Context, store config.ObjectStoreConfig) (bucketEnsurer, error) {
		return objectstore.NewClient(ctx, store)
	}

	bucketRetryOptions = []retry.Option{
		retry.WithMaxAttempts(4),
		retry.WithInitialDelay(time.Second),
		retry.WithMaxDelay(5 * time.Second),
	}
)

// Launch handles the launch command.
//
// For the object-store destination the request's bucket is prepared first.
// Generated code is packaged next so the ConfigMap exists before any worker
// mounts it. If the launch itself then fails, the ConfigMap stays until the
// request is shut down.
func Launch(ctx context.Context, g Global, o LaunchOptions) error {
	req, err := o.Request()
	if err != nil {
		return err
	}

	cfg, manager, err := newManager(g, transformer.WithRollbackOnPartialLaunch(o.RollbackOnFailure))
	if err != nil {
		return err
	}
	defer flushMetrics(ctx, g, req.RequestID)

	logger := log.FromContext(ctx).WithValues("requestID", req.RequestID, "namespace", req.Namespace)

	if req.Destination == workload.DestinationObjectStore && cfg.ObjectStore.Enabled {
		bucket := naming.Bucket(req.RequestID)
		created, err := ensureBucket(ctx, cfg.ObjectStore, bucket)
		if err != nil {
			return fmt.Errorf("failed to prepare bucket %s: %w", bucket, err)
		}
		logger.Info("object store bucket ready", "bucket", bucket, "created", created)
	}

	if o.GeneratedCodeArchive != "" {
		if err := packageArchive(ctx, manager, o.GeneratedCodeArchive, req.RequestID, req.Namespace); err != nil {
			return err
		}
	}

	if err := manager.Launch(ctx, req); err != nil {
		return fmt.Errorf("failed to launch transformer %s: %w", req.RequestID, err)
	}

	fmt.Fprintf(stdout, "Launched %s in namespace %s\n", naming.Deployment(req.RequestID), req.Namespace)
	return nil
}

func ensureBucket(ctx context.Context, store config.ObjectStoreConfig, bucket string) (bool, error) {
	client, err := newObjectStore(ctx, store)
	if err != nil {
		return false, err
	}

	var created bool
	err = retry.Do(ctx, func(ctx context.Context) error {
		c, err := client.EnsureBucket(ctx, bucket)
		if err != nil {
			if objectstore.IsAccessDenied(err) {
				return retry.Fatal(err)
			}
			return err
		}
		created = c
		return nil
	}, bucketRetryOptions...)
	return created, err
}

func packageArchive(ctx context.Context, manager *transformer.Manager, path, requestID, namespace string) error {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open generated code archive: %w", err)
	}
	defer archive.Close()

	artifact, err := manager.PackageGeneratedCode(ctx, &archive.Reader, requestID, namespace)
	if err != nil {
		return fmt.Errorf("failed to package generated code: %w", err)
	}

	fmt.Fprintf(stdout, "Packaged %d files into %s\n", len(artifact.Files), artifact.Name)
	return nil
}
