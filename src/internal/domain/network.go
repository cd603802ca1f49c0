package domain

import "github.com/shopspring/decimal"

// MaxSupply caps the total number of tokens the network will ever hold.
var MaxSupply = decimal.NewFromInt(100_000_000)

// NetworkTotals aggregates every account at one instant. A miner counts as
// active only while its session has not yet ended.
type NetworkTotals struct {
	ActiveMiners     int
	NewActiveMiners  int
	ActiveMiningRate decimal.Decimal
	TotalSupply      decimal.Decimal
}
