package operations

import (
	"context"

	"github.com/skillcoder/coreportal/internal/logic/audit"
	"github.com/skillcoder/coreportal/internal/logic/cluster"
	"github.com/skillcoder/coreportal/internal/logic/registry"
)

// Registry is the service store the simulator mutates.
type Registry interface {
	Get(name string) (cluster.Service, bool)
	FindPod(podName string) (string, int, bool)
	Version() uint64
	Update(reason string, transform registry.Transform) (uint64, error)
}

// Observer is told about every operation. Implementations must not block for long.
type Observer interface {
	OperationStarted(ctx context.Context, op Operation)
	// OperationFinished receives either a result or an error, never both.
	OperationFinished(ctx context.Context, op Operation, res *Result, err error)
}

type auditRecorder interface {
	Record(ctx context.Context, action audit.Action, target, details, user string) (audit.Entry, error)
}

type notifier interface {
	Loading(ctx context.Context, key, operationID, message string)
	Success(ctx context.Context, key, operationID, message string)
	Error(ctx context.Context, key, operationID, message string)
	Info(ctx context.Context, key, operationID, message string)
}
