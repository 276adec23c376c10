package operations_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/memstore"
	"github.com/skillcoder/coreportal/internal/logic/audit"
	"github.com/skillcoder/coreportal/internal/logic/cluster"
	"github.com/skillcoder/coreportal/internal/logic/notify"
	"github.com/skillcoder/coreportal/internal/logic/operations"
	"github.com/skillcoder/coreportal/internal/logic/registry"
)

func fixtureServices() []cluster.Service {
	return []cluster.Service{
		{
			Name: "payment-gateway", Namespace: "core", Replicas: 2, MaxReplicas: 3,
			Status: cluster.ServiceRunning, CPU: "32%", Memory: "54%",
			Pods: []cluster.Pod{
				{
					Name: "payment-gateway-7f8d9c5b6-abc12", Status: cluster.PodRunning, Restarts: 0,
					Age: "5d12h", Node: "node-1", CPU: "15%", Memory: "25%",
				},
				{
					Name: "payment-gateway-7f8d9c5b6-def34", Status: cluster.PodRunning, Restarts: 1,
					Age: "5d12h", Node: "node-3", CPU: "17%", Memory: "29%",
				},
			},
		},
		{
			Name: "invest-uat-default", Namespace: "core-uat", Replicas: 1, MaxReplicas: 1,
			Status: cluster.ServiceRunning, CPU: "15%", Memory: "30%",
			Pods: []cluster.Pod{
				{
					Name: "invest-uat-default-7ff4c4b794-g9gqm", Status: cluster.PodRunning, Restarts: 0,
					Age: "9d", Node: "node-1", CPU: "15%", Memory: "30%",
				},
			},
		},
		{
			Name: "mono-uat-login", Namespace: "core-uat", Replicas: 1, MaxReplicas: 1,
			Status: cluster.ServiceRunning, CPU: "10%", Memory: "20%",
			Pods: []cluster.Pod{
				{
					Name: "mono-uat-login-6d5c7b8f9-k2m4n", Status: cluster.PodRunning, Restarts: 0,
					Age: "9d", Node: "node-2", CPU: "10%", Memory: "20%",
				},
			},
		},
	}
}

type harness struct {
	store *registry.Store
	log   *audit.Log
	sink  *notify.Sink
	sim   *operations.Simulator
}

func newHarness(t *testing.T, cfg operations.Config) *harness {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	services := fixtureServices()
	store := registry.New(logger, services)
	auditLog := audit.New(logger, memstore.New(), audit.DefaultCapacity)
	sink := notify.New(logger, notify.DefaultHistoryLimit)

	sim := operations.New(logger, store, operations.NewNameGenerator(services), cfg,
		operations.NewAuditObserver(logger, auditLog),
		operations.NewNotifyObserver(sink),
		operations.NewMetricsObserver(),
	)

	return &harness{store: store, log: auditLog, sink: sink, sim: sim}
}

func (h *harness) service(t *testing.T, name string) cluster.Service {
	t.Helper()

	svc, ok := h.store.Get(name)
	require.True(t, ok, "service %s not found", name)

	return svc
}

func (h *harness) entries(t *testing.T) []audit.Entry {
	t.Helper()

	entries, err := h.log.List(t.Context())
	require.NoError(t, err)

	return entries
}

func TestRestartService(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	before := h.service(t, "payment-gateway")

	res, err := h.sim.RestartService(operations.WithUser(t.Context(), "alice"), "payment-gateway", "deploy hotfix")
	require.NoError(t, err)
	require.Equal(t, "Service payment-gateway restarted successfully!", res.SuccessMessage)

	after := h.service(t, "payment-gateway")
	require.Equal(t, cluster.ServiceRunning, after.Status)
	require.Len(t, after.Pods, len(before.Pods))

	for i, pod := range after.Pods {
		require.NotEqual(t, before.Pods[i].Name, pod.Name)
		require.Regexp(t, `^payment-gateway-[a-z0-9]{8}$`, pod.Name)
		require.Equal(t, before.Pods[i].Restarts+1, pod.Restarts)
		require.Equal(t, cluster.ZeroAge, pod.Age)
		require.Equal(t, cluster.PodRunning, pod.Status)
		require.Equal(t, before.Pods[i].Node, pod.Node)
	}

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, audit.ActionRestartService, entries[0].Action)
	require.Equal(t, "payment-gateway", entries[0].Target)
	require.Equal(t, "Service restarted successfully. Reason: deploy hotfix", entries[0].Details)
	require.Equal(t, "alice", entries[0].User)

	n, ok := h.sink.Get("restart-payment-gateway")
	require.True(t, ok)
	require.Equal(t, notify.LevelSuccess, n.Level)
	require.Equal(t, res.Operation.ID, n.OperationID)
}

func TestStopService(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})

	_, err := h.sim.StopService(t.Context(), "payment-gateway", "maintenance")
	require.NoError(t, err)

	after := h.service(t, "payment-gateway")
	require.Equal(t, cluster.ServiceStopped, after.Status)
	require.Len(t, after.Pods, 2)
	require.Equal(t, 2, after.Replicas)

	for _, pod := range after.Pods {
		require.Equal(t, cluster.PodTerminated, pod.Status)
	}

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, "Service stopped successfully. Reason: maintenance", entries[0].Details)
	require.Equal(t, audit.DefaultUser, entries[0].User)
}

func TestRestartService_AfterStop(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	before := h.service(t, "payment-gateway")

	_, err := h.sim.StopService(t.Context(), "payment-gateway", "maintenance")
	require.NoError(t, err)

	_, err = h.sim.RestartService(t.Context(), "payment-gateway", "back online")
	require.NoError(t, err)

	after := h.service(t, "payment-gateway")
	require.Equal(t, cluster.ServiceRunning, after.Status)
	require.Len(t, after.Pods, len(before.Pods))

	for i, pod := range after.Pods {
		require.Equal(t, cluster.PodRunning, pod.Status)
		require.Equal(t, before.Pods[i].Restarts+1, pod.Restarts)
		require.Equal(t, cluster.ZeroAge, pod.Age)
	}
}

func TestDeleteService(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	before := h.store.Snapshot().Services

	res, err := h.sim.DeleteService(t.Context(), "mono-uat-login", "decommissioned")
	require.NoError(t, err)
	require.Equal(t, "Service mono-uat-login has been deleted!", res.SuccessMessage)
	require.Empty(t, res.Services)

	_, ok := h.store.Get("mono-uat-login")
	require.False(t, ok)

	after := h.store.Snapshot().Services
	require.Len(t, after, len(before)-1)

	remaining := make(map[string]cluster.Service, len(after))
	for _, svc := range after {
		remaining[svc.Name] = svc
	}

	for _, svc := range before {
		if svc.Name == "mono-uat-login" {
			continue
		}

		require.Equal(t, svc, remaining[svc.Name], "service %s changed", svc.Name)
	}

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, audit.ActionDeleteService, entries[0].Action)
	require.Equal(t, "Service deleted successfully. Reason: decommissioned", entries[0].Details)
}

func TestDeleteService_NotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	version := h.store.Version()

	_, err := h.sim.DeleteService(t.Context(), "missing", "typo")
	require.ErrorIs(t, err, operations.ErrServiceNotFound)
	require.Equal(t, version, h.store.Version())
	require.Empty(t, h.entries(t))

	n, ok := h.sink.Get("delete-missing")
	require.True(t, ok)
	require.Equal(t, notify.LevelError, n.Level)
	require.Equal(t, "Failed to delete service missing", n.Message)
}

func TestScaleService_Up(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	before := h.service(t, "payment-gateway")

	res, err := h.sim.ScaleService(t.Context(), "payment-gateway", 4, "peak traffic")
	require.NoError(t, err)
	require.Equal(t, "Service payment-gateway scaled from 2 to 4 replicas!", res.SuccessMessage)

	after := h.service(t, "payment-gateway")
	require.Equal(t, 4, after.Replicas)
	require.Equal(t, 4, after.MaxReplicas)
	require.Equal(t, cluster.ServiceRunning, after.Status)
	require.Len(t, after.Pods, 4)

	wantAges := []string{"5d12h", "5d12h", cluster.ZeroAge, cluster.ZeroAge}
	wantNodes := []string{"node-1", "node-2", "node-3", "node-1"}

	for i, pod := range after.Pods {
		require.Equal(t, wantAges[i], pod.Age)
		require.Equal(t, wantNodes[i], pod.Node)
		require.Equal(t, 0, pod.Restarts)
		require.Equal(t, cluster.PodRunning, pod.Status)
		require.NotContains(t, before.PodNames(), pod.Name)
		require.Regexp(t, `^([5-9]|1[0-9])%$`, pod.CPU)
		require.Regexp(t, `^([1-2][0-9])%$`, pod.Memory)
	}

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, "Scaling completed from 2 to 4 replicas. Reason: peak traffic", entries[0].Details)
}

func TestScaleService_DownKeepsMaxReplicas(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})

	_, err := h.sim.ScaleService(t.Context(), "payment-gateway", 1, "cost")
	require.NoError(t, err)

	after := h.service(t, "payment-gateway")
	require.Equal(t, 1, after.Replicas)
	require.Equal(t, 3, after.MaxReplicas)
	require.Len(t, after.Pods, 1)
	require.Equal(t, "5d12h", after.Pods[0].Age)
}

func TestScaleService_ToZero(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})

	_, err := h.sim.ScaleService(t.Context(), "invest-uat-default", 0, "idle")
	require.NoError(t, err)

	after := h.service(t, "invest-uat-default")
	require.Equal(t, 0, after.Replicas)
	require.Empty(t, after.Pods)
	require.Equal(t, cluster.ServiceRunning, after.Status)
}

func TestScaleService_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		service  string
		replicas int
		wantErr  error
	}{
		{name: "negative replicas", service: "payment-gateway", replicas: -1, wantErr: operations.ErrInvalidReplicas},
		{name: "missing service", service: "missing", replicas: 2, wantErr: operations.ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, operations.Config{})
			version := h.store.Version()

			_, err := h.sim.ScaleService(t.Context(), tt.service, tt.replicas, "r")
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, version, h.store.Version())
			require.Empty(t, h.entries(t))
		})
	}
}

func TestRestartAllServices(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	names := []string{"invest-uat-default", "mono-uat-login", "gone"}

	res, err := h.sim.RestartAllServices(t.Context(), "core-uat", names, "weekly refresh")
	require.NoError(t, err)
	require.Equal(t, "All services in namespace core-uat restarted successfully!", res.SuccessMessage)
	require.Equal(t, []string{"invest-uat-default", "mono-uat-login"}, cluster.Names(res.Services))

	for _, name := range names[:2] {
		svc := h.service(t, name)
		require.Equal(t, 1, svc.Pods[0].Restarts)
		require.Equal(t, cluster.ZeroAge, svc.Pods[0].Age)
	}

	require.Equal(t, 1, h.service(t, "payment-gateway").Pods[1].Restarts)

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, audit.ActionRestartAllServices, entries[0].Action)
	require.Equal(t, "Namespace: core-uat", entries[0].Target)
	require.Equal(t, "Services: invest-uat-default, mono-uat-login, gone. Reason: weekly refresh", entries[0].Details)
}

func TestRestartAllServices_EmptyStillAudited(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	version := h.store.Version()

	_, err := h.sim.RestartAllServices(t.Context(), "core", nil, "nothing matched")
	require.NoError(t, err)
	require.Equal(t, version, h.store.Version())

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, "Namespace: core", entries[0].Target)
	require.Equal(t, "Services: . Reason: nothing matched", entries[0].Details)
}

func TestStopAllServices(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})

	_, err := h.sim.StopAllServices(t.Context(), cluster.AllNamespaces, []string{"payment-gateway", "mono-uat-login"}, "freeze")
	require.NoError(t, err)

	require.Equal(t, cluster.ServiceStopped, h.service(t, "payment-gateway").Status)
	require.Equal(t, cluster.ServiceStopped, h.service(t, "mono-uat-login").Status)
	require.Equal(t, cluster.ServiceRunning, h.service(t, "invest-uat-default").Status)

	n, ok := h.sink.Get(operations.StopAllKey)
	require.True(t, ok)
	require.Equal(t, "All services in namespace all stopped successfully!", n.Message)
}

func TestViewLogs(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	version := h.store.Version()

	res, err := h.sim.ViewLogs(t.Context(), "invest-uat-default-7ff4c4b794-g9gqm")
	require.NoError(t, err)
	require.Equal(t, "Logs for invest-uat-default-7ff4c4b794-g9gqm opened in new window", res.SuccessMessage)
	require.Equal(t, version, h.store.Version())

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, audit.ActionViewLogs, entries[0].Action)
	require.Empty(t, entries[0].Details)
}

func TestDeletePod(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	const pod = "invest-uat-default-7ff4c4b794-g9gqm"

	res, err := h.sim.DeletePod(t.Context(), pod)
	require.NoError(t, err)
	require.Equal(t, "Pod "+pod+" deleted and replaced with new pod", res.SuccessMessage)

	svc := h.service(t, "invest-uat-default")
	require.Len(t, svc.Pods, 1)

	replaced := svc.Pods[0]
	require.NotEqual(t, pod, replaced.Name)
	require.Regexp(t, `^invest-uat-default-[a-z0-9]{8}$`, replaced.Name)
	require.Equal(t, 0, replaced.Restarts)
	require.Equal(t, cluster.ZeroAge, replaced.Age)
	require.Equal(t, cluster.PodRunning, replaced.Status)
	require.Equal(t, "node-1", replaced.Node)
	require.Equal(t, "15%", replaced.CPU)
	require.Equal(t, "30%", replaced.Memory)

	entries := h.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, pod, entries[0].Target)
	require.Equal(t, "Pod deleted and new pod created", entries[0].Details)

	_, err = h.sim.DeletePod(t.Context(), pod)
	require.ErrorIs(t, err, operations.ErrPodNotFound)
}

func TestSimulatedFailure_RevertsStatus(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{FailureRate: 1})
	before := h.service(t, "payment-gateway")

	_, err := h.sim.RestartService(t.Context(), "payment-gateway", "flaky")
	require.ErrorIs(t, err, operations.ErrSimulatedFailure)

	require.Equal(t, before, h.service(t, "payment-gateway"))
	require.Empty(t, h.entries(t))

	n, ok := h.sink.Get("restart-payment-gateway")
	require.True(t, ok)
	require.Equal(t, notify.LevelError, n.Level)
	require.Equal(t, "Failed to restart service payment-gateway", n.Message)
}

func TestCancelledContext_RevertsStatus(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{Delays: operations.Delays{Stop: time.Hour}})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := h.sim.StopService(ctx, "payment-gateway", "r")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, cluster.ServiceRunning, h.service(t, "payment-gateway").Status)
	require.Empty(t, h.entries(t))
}

func TestTransitionalStatusVisibleDuringDelay(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{Delays: operations.Delays{Scale: 200 * time.Millisecond}})

	done := make(chan error, 1)

	go func() {
		_, err := h.sim.ScaleService(t.Context(), "payment-gateway", 3, "r")
		done <- err
	}()

	require.Eventually(t, func() bool {
		return h.service(t, "payment-gateway").Status == cluster.ServiceScaling
	}, time.Second, 5*time.Millisecond)

	n, ok := h.sink.Get("scale-payment-gateway")
	require.True(t, ok)
	require.Equal(t, notify.LevelLoading, n.Level)
	require.Equal(t, "Scaling service payment-gateway from 2 to 3 replicas...", n.Message)

	require.NoError(t, <-done)
	require.Equal(t, cluster.ServiceRunning, h.service(t, "payment-gateway").Status)
}

func TestConcurrentRestarts_NoLostUpdates(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	const runs = 10

	var wg sync.WaitGroup
	for range runs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := h.sim.RestartService(t.Context(), "payment-gateway", "r")
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	svc := h.service(t, "payment-gateway")
	require.Equal(t, runs, svc.Pods[0].Restarts)
	require.Equal(t, runs+1, svc.Pods[1].Restarts)
	require.Len(t, h.entries(t), runs)
}

func TestSubmit_ShutdownDrains(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{Delays: operations.Delays{Restart: 50 * time.Millisecond}})

	ctx, cancel := context.WithCancel(t.Context())

	id, err := h.sim.Submit(ctx, func(ctx context.Context) error {
		_, err := h.sim.RestartService(ctx, "invest-uat-default", "async")

		return err
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cancel()

	require.NoError(t, h.sim.Shutdown(t.Context()))

	n, ok := h.sink.Operation(id)
	require.True(t, ok)
	require.Equal(t, notify.LevelSuccess, n.Level)
	require.Len(t, h.entries(t), 1)

	_, err = h.sim.Submit(t.Context(), func(context.Context) error { return nil })
	require.ErrorIs(t, err, operations.ErrShuttingDown)
	require.ErrorIs(t, h.sim.Ping(t.Context()), operations.ErrShuttingDown)
}

func TestSubmit_UsesPreassignedOperationID(t *testing.T) {
	t.Parallel()

	h := newHarness(t, operations.Config{})
	ctx := operations.WithOperationID(t.Context(), "op-1")

	id, err := h.sim.Submit(ctx, func(ctx context.Context) error {
		_, err := h.sim.ViewLogs(ctx, "mono-uat-login-6d5c7b8f9-k2m4n")

		return err
	})
	require.NoError(t, err)
	require.Equal(t, "op-1", id)
	require.NoError(t, h.sim.Shutdown(t.Context()))

	n, ok := h.sink.Operation("op-1")
	require.True(t, ok)
	require.Equal(t, notify.LevelSuccess, n.Level)
}
