package globals

import (
	"context"

	"parislib/internal/components/chrono"
	"parislib/pkg/catalog"
)

type key int

const valueKey key = 0

type Value struct {
	Client *catalog.Client
	Time   chrono.TimeAPI
	// Json is true when results should be printed as json instead of tables.
	Json bool
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, valueKey, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(valueKey).(*Value)
}
