package logging

import (
	"context"
	"slices"
)

type fieldsKey struct{}

// ContextWith returns a copy of ctx carrying key-value pairs. Both adapters
// prepend them to every entry logged with that context, so a request id set
// once by the dispatcher shows up in the interceptor and event handlers too.
func ContextWith(ctx context.Context, args ...any) context.Context {
	fields := append(slices.Clip(contextFields(ctx)), args...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func contextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]any)
	return fields
}

func withContextFields(ctx context.Context, args []any) []any {
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return args
	}
	return append(slices.Clip(fields), args...)
}
