package mining

import (
	"time"

	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// DecayPerInactiveMember is taken off the owner's rate per inactive teammate.
	DecayPerInactiveMember = decimal.RequireFromString("0.005")
	// MinOwnerRate is the floor the decay rule never pushes an owner below.
	MinOwnerRate = decimal.NewFromInt(1)
)

// MinDecayTeamSize is the smallest team the decay rule looks at.
const MinDecayTeamSize = 2

type DecayResult struct {
	InactiveMembers int
	Decrease        decimal.Decimal
	PreviousRate    decimal.Decimal
	NewRate         decimal.Decimal
}

func (r DecayResult) Applied() bool {
	return r.Decrease.IsPositive()
}

// IsInactive reports whether a teammate counts against the owner: not mining,
// or mining on a session that started more than 24 hours ago.
func IsInactive(member domain.Account, now time.Time) bool {
	if !member.IsMining() {
		return true
	}
	return member.MiningSessionStart != nil && member.MiningSessionStart.Before(now.Add(-SessionLength))
}

// ApplyTeamDecay lowers the owner's mining rate by DecayPerInactiveMember for
// each inactive member other than the owner, never below MinOwnerRate. The
// owner is returned unchanged unless the rate actually drops.
//
// Running it twice over the same observation window decays twice; callers
// schedule it at most once per interval.
func ApplyTeamDecay(owner domain.Account, members []domain.Account, now time.Time) (domain.Account, DecayResult) {
	inactive := 0
	for _, member := range members {
		if member.ID == owner.ID {
			continue
		}
		if IsInactive(member, now) {
			inactive++
		}
	}

	result := DecayResult{
		InactiveMembers: inactive,
		Decrease:        decimal.Zero,
		PreviousRate:    owner.MiningRate,
		NewRate:         owner.MiningRate,
	}
	if inactive == 0 {
		return owner, result
	}

	target := decimal.Max(MinOwnerRate, owner.MiningRate.Sub(DecayPerInactiveMember.Mul(decimal.NewFromInt(int64(inactive)))))
	decrease := owner.MiningRate.Sub(target)
	if !decrease.IsPositive() {
		return owner, result
	}

	owner.MiningRate = target
	result.Decrease = decrease
	result.NewRate = target

	return owner, result
}
