package notifier

import (
	"context"

	"StakeBanner/internal/model"
)

// Notifier delivers a report to some destination.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, r *model.Report) error
}
