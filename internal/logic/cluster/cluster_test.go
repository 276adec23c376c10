package cluster_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

func testServices() []cluster.Service {
	return []cluster.Service{
		{
			Name: "payment-gateway", Namespace: "core", Replicas: 1, MaxReplicas: 2,
			Status: cluster.ServiceRunning,
			Pods:   []cluster.Pod{{Name: "payment-gateway-a", Status: cluster.PodRunning}},
		},
		{
			Name: "mono-uat-payment", Namespace: "core-uat", Replicas: 1, MaxReplicas: 1,
			Status: cluster.ServiceRunning,
			Pods:   []cluster.Pod{{Name: "mono-uat-payment-a", Status: cluster.PodRunning}},
		},
		{
			Name: "mono-uat-login", Namespace: "core-uat", Replicas: 0, MaxReplicas: 1,
			Status: cluster.ServiceStopped,
		},
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		namespace string
		query     string
		want      []string
	}{
		{name: "all namespaces no query", namespace: cluster.AllNamespaces, want: []string{"payment-gateway", "mono-uat-payment", "mono-uat-login"}},
		{name: "empty namespace matches all", namespace: "", query: "login", want: []string{"mono-uat-login"}},
		{name: "namespace only", namespace: "core", want: []string{"payment-gateway"}},
		{name: "case insensitive query", namespace: cluster.AllNamespaces, query: "PAYMENT", want: []string{"payment-gateway", "mono-uat-payment"}},
		{name: "namespace and query", namespace: "core-uat", query: "pay", want: []string{"mono-uat-payment"}},
		{name: "no match", namespace: "core", query: "login", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := cluster.Filter(testServices(), tt.namespace, tt.query)
			require.Equal(t, tt.want, cluster.Names(got))
		})
	}
}

func TestFilter_ReturnsCopies(t *testing.T) {
	t.Parallel()

	services := testServices()
	got := cluster.Filter(services, "core", "")
	got[0].Pods[0].Name = "changed"

	require.Equal(t, "payment-gateway-a", services[0].Pods[0].Name)
}

func TestNamespaces(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"core", "core-uat"}, cluster.Namespaces(testServices()))
	require.Empty(t, cluster.Namespaces(nil))
}

func TestFindPod(t *testing.T) {
	t.Parallel()

	svc, idx, ok := cluster.FindPod(testServices(), "mono-uat-payment-a")
	require.True(t, ok)
	require.Equal(t, 1, svc)
	require.Equal(t, 0, idx)

	_, _, ok = cluster.FindPod(testServices(), "missing")
	require.False(t, ok)
}

func TestNodeFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, "node-1", cluster.NodeFor(0))
	require.Equal(t, "node-3", cluster.NodeFor(2))
	require.Equal(t, "node-1", cluster.NodeFor(3))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := testServices()[0]

	tests := []struct {
		name    string
		mutate  func(s *cluster.Service)
		wantErr error
	}{
		{name: "valid", mutate: func(*cluster.Service) {}},
		{name: "empty name", mutate: func(s *cluster.Service) { s.Name = "" }, wantErr: cluster.ErrEmptyName},
		{name: "invalid name", mutate: func(s *cluster.Service) { s.Name = "Payment_Gateway" }, wantErr: cluster.ErrInvalidName},
		{name: "transitional status", mutate: func(s *cluster.Service) { s.Status = cluster.ServiceScaling }, wantErr: cluster.ErrNonTerminalStatus},
		{name: "unknown status", mutate: func(s *cluster.Service) { s.Status = "Crashing" }, wantErr: cluster.ErrUnknownStatus},
		{name: "replica mismatch", mutate: func(s *cluster.Service) { s.Replicas = 3; s.MaxReplicas = 3 }, wantErr: cluster.ErrReplicaMismatch},
		{name: "max replicas too low", mutate: func(s *cluster.Service) { s.MaxReplicas = 0 }, wantErr: cluster.ErrMaxReplicasTooLow},
		{name: "bad pod status", mutate: func(s *cluster.Service) { s.Pods[0].Status = "Pending" }, wantErr: cluster.ErrUnknownPodStatus},
		{name: "negative restarts", mutate: func(s *cluster.Service) { s.Pods[0].Restarts = -1 }, wantErr: cluster.ErrNegativeRestarts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := valid.Clone()
			tt.mutate(&svc)

			err := cluster.Validate(svc)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAll_DuplicateService(t *testing.T) {
	t.Parallel()

	services := testServices()
	services = append(services, services[0].Clone())

	require.ErrorIs(t, cluster.ValidateAll(services), cluster.ErrDuplicateService)
}
