package model

import "github.com/shopspring/decimal"

// Account is a single staking record as returned by the indexer.
type Account struct {
	Deadline int64           `json:"global_deadline"` // unix seconds
	Initial  decimal.Decimal `json:"global_initial"`  // smallest on-chain unit
	Period   int64           `json:"global_period"`
}

// AccountsResponse is the body of /v1/scs/accounts.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}
