package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MiningStatus string

const (
	MiningStatusIdle      MiningStatus = "idle"
	MiningStatusActive    MiningStatus = "active"
	MiningStatusCompleted MiningStatus = "completed"
	MiningStatusFailed    MiningStatus = "failed"
)

func (s MiningStatus) Valid() bool {
	switch s {
	case MiningStatusIdle, MiningStatusActive, MiningStatusCompleted, MiningStatusFailed:
		return true
	default:
		return false
	}
}

// Account is an immutable snapshot of a mining account as persisted.
// Session timestamps are only set while MiningStatus is active.
type Account struct {
	ID                 string
	Name               string
	Email              string
	TeamID             *string
	BaseBalance        decimal.Decimal
	MiningRate         decimal.Decimal
	LastBalanceUpdate  *time.Time
	MiningSessionStart *time.Time
	MiningSessionEnd   *time.Time
	MiningStatus       MiningStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (a Account) IsMining() bool {
	return a.MiningStatus == MiningStatusActive
}

func (a Account) InTeam(teamID string) bool {
	return a.TeamID != nil && *a.TeamID == teamID
}

// SameState reports whether two snapshots agree on every column a mutation
// can write.
func (a Account) SameState(other Account) bool {
	return sameString(a.TeamID, other.TeamID) &&
		a.BaseBalance.Equal(other.BaseBalance) &&
		a.MiningRate.Equal(other.MiningRate) &&
		sameTime(a.LastBalanceUpdate, other.LastBalanceUpdate) &&
		sameTime(a.MiningSessionStart, other.MiningSessionStart) &&
		sameTime(a.MiningSessionEnd, other.MiningSessionEnd) &&
		a.MiningStatus == other.MiningStatus
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
