package collector

import (
	"context"

	"StakeBanner/internal/model"
)

// Fetcher defines the interface for fetching staking account records.
type Fetcher interface {
	FetchAccounts(ctx context.Context, contractID uint64) ([]model.Account, error)
	Name() string
}
