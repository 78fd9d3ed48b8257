package logger

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type fieldsKey struct{}

// WithFields returns a context whose log lines carry the given key/value pairs.
// Fields already on ctx are kept; later values win.
func WithFields(ctx context.Context, kv ...interface{}) context.Context {
	prev := fieldsFrom(ctx)
	next := make(logrus.Fields, len(prev)+len(kv)/2)
	for k, v := range prev {
		next[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		next[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return context.WithValue(ctx, fieldsKey{}, next)
}

func fieldsFrom(ctx context.Context) logrus.Fields {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).(logrus.Fields)
	return f
}
