package telemetry

import "context"

type ctxKey int

const turnIDKey ctxKey = iota

// WithTurnID returns a child context carrying the loop turn ID, so tool
// executions deep in the call chain tag their events with the turn that
// triggered them.
func WithTurnID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, turnIDKey, id)
}

// TurnIDFromContext reports the turn ID on ctx, or "", false when absent.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(turnIDKey).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
