package clock

import (
	"context"
	"time"
)

// Clock supplies the current instant to rule validity checks, delivery-time
// surcharges and invoice due-date math, so tests can pin time.
type Clock interface {
	Now(ctx context.Context) time.Time
}
