// Package mining holds the balance accrual rules for mining accounts and the
// team activity decay rule. Every function is pure: callers pass the account
// snapshot, the size of the account's team and the instant to evaluate at,
// and persist whatever comes back.
package mining

import (
	"fmt"
	"time"

	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	SessionLength   = 24 * time.Hour
	maxSessionHours = int64(24)
)

var (
	// PassiveRate is credited per whole hour while an account is not mining.
	PassiveRate = decimal.RequireFromString("0.05")
	// TeamBonusPerMember is added to the active multiplier for every team member,
	// the account itself included.
	TeamBonusPerMember = decimal.RequireFromString("0.1")
)

// EnsureInitialized fills LastBalanceUpdate from CreatedAt when it was never
// set. The boolean reports whether the snapshot changed and needs persisting.
func EnsureInitialized(account domain.Account) (domain.Account, bool) {
	changed := false
	if account.LastBalanceUpdate == nil {
		created := account.CreatedAt
		account.LastBalanceUpdate = &created
		changed = true
	}
	if account.MiningStatus == "" {
		account.MiningStatus = domain.MiningStatusIdle
		changed = true
	}
	return account, changed
}

// ActiveRate is the hourly rate of a running session including the team bonus.
func ActiveRate(miningRate decimal.Decimal, teamSize int) decimal.Decimal {
	if teamSize < 0 {
		teamSize = 0
	}
	bonus := TeamBonusPerMember.Mul(decimal.NewFromInt(int64(teamSize)))
	return miningRate.Mul(decimal.NewFromInt(1).Add(bonus))
}

// CurrentBalance computes the balance at now without persisting anything.
//
// While a session is active only session hours count, measured from the
// session start and capped at 24; hours already folded into BaseBalance by an
// earlier checkpoint inside the session are not credited twice. Otherwise the
// passive rate applies to whole hours since the last checkpoint.
func CurrentBalance(account domain.Account, teamSize int, now time.Time) (decimal.Decimal, error) {
	last := lastBalanceUpdate(account)
	if now.Before(last) {
		return decimal.Zero, fmt.Errorf("%w: now=%s lastBalanceUpdate=%s", domain.ErrInvalidTimestamp, now.Format(time.RFC3339), last.Format(time.RFC3339))
	}

	if account.IsMining() && account.MiningSessionStart != nil {
		start := *account.MiningSessionStart
		if now.Before(start) {
			return decimal.Zero, fmt.Errorf("%w: now=%s sessionStart=%s", domain.ErrInvalidTimestamp, now.Format(time.RFC3339), start.Format(time.RFC3339))
		}

		credited := sessionHours(start, last)
		hours := sessionHours(start, now) - credited
		rate := ActiveRate(account.MiningRate, effectiveTeamSize(account, teamSize))

		return account.BaseBalance.Add(rate.Mul(decimal.NewFromInt(hours))), nil
	}

	hours := wholeHours(now.Sub(last))
	return account.BaseBalance.Add(PassiveRate.Mul(decimal.NewFromInt(hours))), nil
}

// Checkpoint folds the accrued balance into BaseBalance and moves
// LastBalanceUpdate to now.
func Checkpoint(account domain.Account, teamSize int, now time.Time) (domain.Account, decimal.Decimal, error) {
	balance, err := CurrentBalance(account, teamSize, now)
	if err != nil {
		return account, decimal.Zero, err
	}

	at := now
	account.BaseBalance = balance
	account.LastBalanceUpdate = &at

	return account, balance, nil
}

func CanStartSession(account domain.Account, now time.Time) bool {
	if !account.IsMining() || account.MiningSessionStart == nil {
		return true
	}
	return wholeHours(now.Sub(*account.MiningSessionStart)) >= maxSessionHours
}

func StartSession(account domain.Account, teamSize int, now time.Time) (domain.Account, error) {
	if !CanStartSession(account, now) {
		return account, domain.ErrSessionInProgress
	}

	account, _, err := Checkpoint(account, teamSize, now)
	if err != nil {
		return account, err
	}

	start := now
	end := now.Add(SessionLength)
	account.MiningSessionStart = &start
	account.MiningSessionEnd = &end
	account.MiningStatus = domain.MiningStatusActive

	return account, nil
}

// CompleteSession checkpoints the session and returns the earnings it added.
// Early completion is not refused here; that policy belongs to the caller.
func CompleteSession(account domain.Account, teamSize int, now time.Time) (domain.Account, decimal.Decimal, error) {
	if !account.IsMining() {
		return account, decimal.Zero, domain.ErrNoActiveSession
	}

	before := account.BaseBalance
	account, final, err := Checkpoint(account, teamSize, now)
	if err != nil {
		return account, decimal.Zero, err
	}

	account.MiningStatus = domain.MiningStatusCompleted
	account.MiningSessionStart = nil
	account.MiningSessionEnd = nil

	return account, final.Sub(before), nil
}

// ReconcileSession completes an active session whose window has fully
// elapsed. Earnings are nil when nothing was completed.
func ReconcileSession(account domain.Account, teamSize int, now time.Time) (domain.Account, *decimal.Decimal, error) {
	if !account.IsMining() || account.MiningSessionEnd == nil {
		return account, nil, nil
	}
	if !now.After(*account.MiningSessionEnd) {
		return account, nil, nil
	}

	account, earnings, err := CompleteSession(account, teamSize, now)
	if err != nil {
		return account, nil, err
	}
	return account, &earnings, nil
}

// SessionEarnings is what the running session has accrued on top of
// BaseBalance so far; zero when not mining.
func SessionEarnings(account domain.Account, teamSize int, now time.Time) (decimal.Decimal, error) {
	if !account.IsMining() {
		return decimal.Zero, nil
	}
	balance, err := CurrentBalance(account, teamSize, now)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Sub(account.BaseBalance), nil
}

// TimeRemaining is the time left until the active session ends.
func TimeRemaining(account domain.Account, now time.Time) time.Duration {
	if !account.IsMining() || account.MiningSessionEnd == nil {
		return 0
	}
	remaining := account.MiningSessionEnd.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CreditReward adds a task reward straight to BaseBalance.
func CreditReward(account domain.Account, amount decimal.Decimal) (domain.Account, error) {
	if !amount.IsPositive() {
		return account, fmt.Errorf("reward must be greater than zero, got %s", amount.String())
	}
	account.BaseBalance = account.BaseBalance.Add(amount)
	return account, nil
}

func lastBalanceUpdate(account domain.Account) time.Time {
	if account.LastBalanceUpdate != nil {
		return *account.LastBalanceUpdate
	}
	return account.CreatedAt
}

func effectiveTeamSize(account domain.Account, teamSize int) int {
	if account.TeamID == nil {
		return 0
	}
	return teamSize
}

// sessionHours counts whole hours from start to at, clamped to [0, 24].
func sessionHours(start, at time.Time) int64 {
	if at.Before(start) {
		return 0
	}
	return min(wholeHours(at.Sub(start)), maxSessionHours)
}

func wholeHours(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Hour)
}
