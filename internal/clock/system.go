package clock

import (
	"context"
	"time"

	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)

type SystemClock struct{}

func (SystemClock) Now(_ context.Context) time.Time {
	return time.Now().UTC()
}
