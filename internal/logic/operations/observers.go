package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/metrics"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// AuditObserver records successful operations in the audit log.
type AuditObserver struct {
	logger   *slog.Logger
	recorder auditRecorder
}

func NewAuditObserver(logger *slog.Logger, recorder auditRecorder) *AuditObserver {
	return &AuditObserver{logger: logger, recorder: recorder}
}

func (o *AuditObserver) OperationStarted(context.Context, Operation) {}

func (o *AuditObserver) OperationFinished(ctx context.Context, op Operation, res *Result, err error) {
	if err != nil || res == nil {
		return
	}

	if _, err := o.recorder.Record(ctx, op.Action, op.Target, res.Details, op.User); err != nil {
		o.logger.ErrorContext(ctx, "failed to record audit entry",
			"operationID", op.ID,
			"action", op.Action,
			"reason", err,
		)
	}
}

// NotifyObserver mirrors operation progress into the notification sink.
type NotifyObserver struct {
	notifier notifier
}

func NewNotifyObserver(n notifier) *NotifyObserver {
	return &NotifyObserver{notifier: n}
}

func (o *NotifyObserver) OperationStarted(ctx context.Context, op Operation) {
	if op.Informational {
		o.notifier.Info(ctx, op.Key, op.ID, op.StartMessage)

		return
	}

	o.notifier.Loading(ctx, op.Key, op.ID, op.StartMessage)
}

func (o *NotifyObserver) OperationFinished(ctx context.Context, op Operation, res *Result, err error) {
	if err != nil || res == nil {
		o.notifier.Error(ctx, op.Key, op.ID, op.ErrorMessage)

		return
	}

	o.notifier.Success(ctx, op.Key, op.ID, res.SuccessMessage)
}

// MetricsObserver exports operation counters, durations and in-flight gauges.
type MetricsObserver struct {
	now func() time.Time
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{now: time.Now}
}

func (o *MetricsObserver) OperationStarted(_ context.Context, op Operation) {
	metrics.OperationStarted(string(op.Action))
}

func (o *MetricsObserver) OperationFinished(_ context.Context, op Operation, _ *Result, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}

	metrics.OperationFinished(string(op.Action), result, o.now().Sub(op.StartedAt))
}
