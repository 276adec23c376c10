package httpserver

import (
	"context"
	"time"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/k8s"
	"github.com/skillcoder/coreportal/internal/infra/appstate"
	"github.com/skillcoder/coreportal/internal/infra/pinger"
	"github.com/skillcoder/coreportal/internal/logic/audit"
	"github.com/skillcoder/coreportal/internal/logic/cluster"
	"github.com/skillcoder/coreportal/internal/logic/notify"
	"github.com/skillcoder/coreportal/internal/logic/operations"
	"github.com/skillcoder/coreportal/internal/logic/registry"
)

// appstater is an internal interface for application state management
type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetAllStats() []pinger.Statistics
}

type simulator interface {
	RestartService(ctx context.Context, name, reason string) (*operations.Result, error)
	StopService(ctx context.Context, name, reason string) (*operations.Result, error)
	DeleteService(ctx context.Context, name, reason string) (*operations.Result, error)
	ScaleService(ctx context.Context, name string, replicas int, reason string) (*operations.Result, error)
	RestartAllServices(ctx context.Context, namespace string, names []string, reason string) (*operations.Result, error)
	StopAllServices(ctx context.Context, namespace string, names []string, reason string) (*operations.Result, error)
	ViewLogs(ctx context.Context, pod string) (*operations.Result, error)
	DeletePod(ctx context.Context, pod string) (*operations.Result, error)
	Submit(ctx context.Context, fn func(ctx context.Context) error) (string, error)
}

type serviceStore interface {
	Snapshot() registry.Snapshot
	Get(name string) (cluster.Service, bool)
	FindPod(podName string) (string, int, bool)
	Replace(services []cluster.Service) uint64
	CompareAndSwap(version uint64, services []cluster.Service) (uint64, error)
}

type auditLog interface {
	List(ctx context.Context) ([]audit.Entry, error)
	Clear(ctx context.Context) error
}

type notificationReader interface {
	List() []notify.Notification
	Operation(operationID string) (notify.Notification, bool)
}

type manifestRenderer interface {
	Render(ctx context.Context, svc cluster.Service) k8s.Manifest
}
