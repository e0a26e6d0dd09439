package workload

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/k8xform/internal/config"
	"github.com/imamik/k8xform/internal/util/ptr"
)

// Volume names and in-container paths.
const (
	SecurityVolumeName      = "x509-secret"
	SecurityMountPath       = "/etc/grid-security-ro"
	HostDataVolumeName      = "host-data"
	HostDataMountPath       = "/data"
	GeneratedCodeVolumeName = "generated-code"
	GeneratedCodeMountPath  = "/generated"
)

// AuxiliaryMountKind tells which extra data source a worker gets.
type AuxiliaryMountKind int

const (
	NoAuxiliaryMount AuxiliaryMountKind = iota
	HostPathMount
	GeneratedCodeMount
)

// AuxiliaryMount is the single optional volume mounted next to the security
// material. Source is the host path or the ConfigMap name depending on Kind.
type AuxiliaryMount struct {
	Kind   AuxiliaryMountKind
	Source string
}

// ResolveAuxiliaryMount picks the auxiliary mount for a request. A configured
// host path wins over generated code; only one of them is ever mounted.
func ResolveAuxiliaryMount(req Request, worker config.WorkerConfig) AuxiliaryMount {
	switch {
	case worker.LocalPath != "":
		return AuxiliaryMount{Kind: HostPathMount, Source: worker.LocalPath}
	case req.GeneratedCode != "":
		return AuxiliaryMount{Kind: GeneratedCodeMount, Source: req.GeneratedCode}
	default:
		return AuxiliaryMount{Kind: NoAuxiliaryMount}
	}
}

// volumes returns the pod volumes and matching container mounts. The
// security material is always first.
func volumes(req Request, aux AuxiliaryMount) ([]corev1.Volume, []corev1.VolumeMount) {
	vols := []corev1.Volume{{
		Name: SecurityVolumeName,
		VolumeSource: corev1.VolumeSource{
			Secret: &corev1.SecretVolumeSource{SecretName: req.SecuritySecret},
		},
	}}
	mounts := []corev1.VolumeMount{{
		Name:      SecurityVolumeName,
		MountPath: SecurityMountPath,
		ReadOnly:  true,
	}}

	switch aux.Kind {
	case HostPathMount:
		vols = append(vols, corev1.Volume{
			Name: HostDataVolumeName,
			VolumeSource: corev1.VolumeSource{
				HostPath: &corev1.HostPathVolumeSource{Path: aux.Source},
			},
		})
		mounts = append(mounts, corev1.VolumeMount{Name: HostDataVolumeName, MountPath: HostDataMountPath})
	case GeneratedCodeMount:
		vols = append(vols, corev1.Volume{
			Name: GeneratedCodeVolumeName,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: aux.Source},
					DefaultMode:          ptr.Int32(0o755),
				},
			},
		})
		mounts = append(mounts, corev1.VolumeMount{Name: GeneratedCodeVolumeName, MountPath: GeneratedCodeMountPath})
	}

	return vols, mounts
}
