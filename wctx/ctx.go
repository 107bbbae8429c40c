// index for context values
package wctx

import "context"

type key int

const (
	opKey      key = 1
	inputKey   key = 2
	versionKey key = 3
)

// Name of the command being run. Used as op=XXX in logs.
func WithOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey, op)
}

func Op(ctx context.Context) string {
	op, _ := ctx.Value(opKey).(string)
	return op
}

// Position of the argument being processed
func WithInput(ctx context.Context, i int) context.Context {
	return context.WithValue(ctx, inputKey, i)
}

func Input(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(inputKey).(int)
	return i, ok
}

func WithVersion(ctx context.Context, v string) context.Context {
	return context.WithValue(ctx, versionKey, v)
}

func Version(ctx context.Context) string {
	v, _ := ctx.Value(versionKey).(string)
	return v
}
