package operations

import "context"

type ctxKey int

const (
	ctxKeyUser ctxKey = iota
	ctxKeyOperationID
)

// WithUser attaches the invoking user to ctx; it is recorded in the audit log.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

// UserFrom returns the invoking user attached to ctx.
func UserFrom(ctx context.Context) string {
	user, _ := ctx.Value(ctxKeyUser).(string)

	return user
}

// WithOperationID pre-assigns the ID of the next operation run with ctx,
// so callers can hand it out before an asynchronous operation starts.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyOperationID, id)
}

// OperationIDFrom returns the operation ID attached to ctx.
func OperationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyOperationID).(string)

	return id
}
