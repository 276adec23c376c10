// Package k8s renders mock services as the Kubernetes objects they stand for,
// so clients can inspect them with familiar apps/v1 and core/v1 shapes.
package k8s

import (
	"context"
	"log/slog"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

const (
	appLabel = "app"

	annotationPrefix      = "coreportal.io/"
	annotationCPU         = annotationPrefix + "cpu"
	annotationMemory      = annotationPrefix + "memory"
	annotationMaxReplicas = annotationPrefix + "max-replicas"
	annotationStatus      = annotationPrefix + "status"

	reasonCompleted = "Completed"
)

// Manifest is the Kubernetes view of one service.
type Manifest struct {
	Deployment appsv1.Deployment `json:"deployment"`
	Pods       corev1.PodList    `json:"pods"`
}

// Renderer builds manifests. Ages are anchored to the render time.
type Renderer struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger, now: time.Now}
}

// Render converts svc to a Deployment and the list of its pods.
func (r *Renderer) Render(ctx context.Context, svc cluster.Service) Manifest {
	now := r.now().UTC()
	labels := map[string]string{appLabel: svc.Name}

	pods := make([]corev1.Pod, 0, len(svc.Pods))
	ready := int32(0)
	oldest := now

	for i := range svc.Pods {
		pod := r.pod(ctx, svc, svc.Pods[i], labels, now)
		if pod.CreationTimestamp.Time.Before(oldest) {
			oldest = pod.CreationTimestamp.Time
		}

		if pod.Status.Phase == corev1.PodRunning {
			ready++
		}

		pods = append(pods, pod)
	}

	available := corev1.ConditionFalse
	if ready > 0 || svc.Replicas == 0 {
		available = corev1.ConditionTrue
	}

	deployment := appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:              svc.Name,
			Namespace:         svc.Namespace,
			Labels:            labels,
			CreationTimestamp: metav1.NewTime(oldest),
			Annotations: map[string]string{
				annotationCPU:         svc.CPU,
				annotationMemory:      svc.Memory,
				annotationMaxReplicas: formatInt(svc.MaxReplicas),
				annotationStatus:      string(svc.Status),
			},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(svc.Replicas)), //nolint:gosec // replica counts are small
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: svc.Name}},
				},
			},
		},
		Status: appsv1.DeploymentStatus{
			Replicas:          int32(len(svc.Pods)), //nolint:gosec // pod counts are small
			ReadyReplicas:     ready,
			AvailableReplicas: ready,
			Conditions: []appsv1.DeploymentCondition{{
				Type:   appsv1.DeploymentAvailable,
				Status: available,
			}},
		},
	}

	return Manifest{
		Deployment: deployment,
		Pods: corev1.PodList{
			TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "PodList"},
			Items:    pods,
		},
	}
}

func (r *Renderer) pod(
	ctx context.Context,
	svc cluster.Service,
	p cluster.Pod,
	labels map[string]string,
	now time.Time,
) corev1.Pod {
	created := now

	age, err := ParseAge(p.Age)
	if err != nil {
		r.logger.DebugContext(ctx, "pod age not parsable, using render time",
			"pod", p.Name,
			"reason", err,
		)
	} else {
		created = now.Add(-age)
	}

	started := metav1.NewTime(created)
	status := corev1.ContainerStatus{
		Name:         svc.Name,
		RestartCount: int32(p.Restarts), //nolint:gosec // restart counters are small
	}

	phase := corev1.PodRunning
	if p.Status == cluster.PodTerminated {
		phase = corev1.PodSucceeded
		status.State.Terminated = &corev1.ContainerStateTerminated{
			Reason:     reasonCompleted,
			StartedAt:  started,
			FinishedAt: metav1.NewTime(now),
		}
	} else {
		status.Ready = true
		status.Started = ptr.To(true)
		status.State.Running = &corev1.ContainerStateRunning{StartedAt: started}
	}

	return corev1.Pod{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Pod"},
		ObjectMeta: metav1.ObjectMeta{
			Name:              p.Name,
			Namespace:         svc.Namespace,
			Labels:            labels,
			CreationTimestamp: started,
			Annotations: map[string]string{
				annotationCPU:    p.CPU,
				annotationMemory: p.Memory,
			},
		},
		Spec: corev1.PodSpec{
			NodeName:   p.Node,
			Containers: []corev1.Container{{Name: svc.Name}},
		},
		Status: corev1.PodStatus{
			Phase:             phase,
			StartTime:         &started,
			ContainerStatuses: []corev1.ContainerStatus{status},
		},
	}
}
