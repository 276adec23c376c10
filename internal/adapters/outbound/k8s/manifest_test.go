package k8s

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

func TestParseAge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		age     string
		want    time.Duration
		wantErr bool
	}{
		{age: "7d17h", want: 7*day + 17*time.Hour},
		{age: "25h", want: 25 * time.Hour},
		{age: "128m", want: 128 * time.Minute},
		{age: "0m", want: 0},
		{age: "9d", want: 9 * day},
		{age: "", wantErr: true},
		{age: "5x", wantErr: true},
		{age: "d5", wantErr: true},
		{age: "12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAge(tt.age)
			if tt.wantErr {
				var ageErr *InvalidAgeError
				require.True(t, errors.As(err, &ageErr))
				require.Equal(t, tt.age, ageErr.Age)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	r := NewRenderer(slog.New(slog.DiscardHandler))
	r.now = func() time.Time { return now }

	svc := cluster.Service{
		Name: "payment-gateway", Namespace: "core", Replicas: 2, MaxReplicas: 2,
		Status: cluster.ServiceRunning, CPU: "32%", Memory: "54%",
		Pods: []cluster.Pod{
			{Name: "payment-gateway-7f8d9c5b6-abc12", Status: cluster.PodRunning, Age: "5d12h", Node: "node-1", CPU: "15%", Memory: "25%"},
			{Name: "payment-gateway-7f8d9c5b6-def34", Status: cluster.PodTerminated, Restarts: 1, Age: "2h", Node: "node-3", CPU: "17%", Memory: "29%"},
		},
	}

	m := r.Render(t.Context(), svc)

	d := m.Deployment
	require.Equal(t, "Deployment", d.Kind)
	require.Equal(t, "payment-gateway", d.Name)
	require.Equal(t, "core", d.Namespace)
	require.Equal(t, int32(2), *d.Spec.Replicas)
	require.Equal(t, map[string]string{"app": "payment-gateway"}, d.Spec.Selector.MatchLabels)
	require.Equal(t, "2", d.Annotations["coreportal.io/max-replicas"])
	require.Equal(t, "32%", d.Annotations["coreportal.io/cpu"])
	require.Equal(t, int32(1), d.Status.ReadyReplicas)
	require.Equal(t, appsv1.DeploymentAvailable, d.Status.Conditions[0].Type)
	require.Equal(t, corev1.ConditionTrue, d.Status.Conditions[0].Status)
	require.Equal(t, now.Add(-(5*day + 12*time.Hour)), d.CreationTimestamp.Time)

	require.Len(t, m.Pods.Items, 2)

	running := m.Pods.Items[0]
	require.Equal(t, "node-1", running.Spec.NodeName)
	require.Equal(t, corev1.PodRunning, running.Status.Phase)
	require.NotNil(t, running.Status.ContainerStatuses[0].State.Running)

	stopped := m.Pods.Items[1]
	require.Equal(t, corev1.PodSucceeded, stopped.Status.Phase)
	require.Equal(t, int32(1), stopped.Status.ContainerStatuses[0].RestartCount)
	require.Equal(t, "Completed", stopped.Status.ContainerStatuses[0].State.Terminated.Reason)
	require.Equal(t, now.Add(-2*time.Hour), stopped.CreationTimestamp.Time)
}

func TestRender_StoppedServiceUnavailable(t *testing.T) {
	t.Parallel()

	r := NewRenderer(slog.New(slog.DiscardHandler))
	m := r.Render(t.Context(), cluster.Service{
		Name: "svc", Namespace: "ns", Replicas: 1, MaxReplicas: 1, Status: cluster.ServiceStopped,
		Pods: []cluster.Pod{{Name: "svc-a", Status: cluster.PodTerminated, Age: "bogus"}},
	})

	require.Equal(t, corev1.ConditionFalse, m.Deployment.Status.Conditions[0].Status)
	require.Equal(t, int32(0), m.Deployment.Status.ReadyReplicas)
}
