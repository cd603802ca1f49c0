package mining

import (
	"errors"
	"testing"
	"time"

	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)

func newIdleAccount(created time.Time) domain.Account {
	last := created
	return domain.Account{
		ID:                "acc-1",
		BaseBalance:       decimal.Zero,
		MiningRate:        decimal.RequireFromString("0.25"),
		LastBalanceUpdate: &last,
		MiningStatus:      domain.MiningStatusIdle,
		CreatedAt:         created,
	}
}

func teamID(id string) *string {
	return &id
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestIdleAccrualCreditsWholeHours(t *testing.T) {
	account := newIdleAccount(t0)

	balance, err := CurrentBalance(account, 0, t0.Add(3*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "0.15", balance)

	balance, err = CurrentBalance(account, 0, t0.Add(3*time.Hour+59*time.Minute))
	require.NoError(t, err)
	assertDecimal(t, "0.15", balance)
}

func TestIdleAccrualIsMonotonic(t *testing.T) {
	account := newIdleAccount(t0)

	previous := decimal.Zero
	for minutes := 0; minutes <= 72*60; minutes += 17 {
		now := t0.Add(time.Duration(minutes) * time.Minute)
		balance, err := CurrentBalance(account, 0, now)
		require.NoError(t, err)

		assert.True(t, balance.GreaterThanOrEqual(previous), "balance decreased at +%dm", minutes)
		assertDecimal(t, PassiveRate.Mul(decimal.NewFromInt(int64(minutes/60))).String(), balance)
		previous = balance
	}
}

func TestUnsetLastBalanceUpdateFallsBackToCreation(t *testing.T) {
	account := newIdleAccount(t0)
	account.LastBalanceUpdate = nil

	balance, err := CurrentBalance(account, 0, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "0.1", balance)

	initialized, changed := EnsureInitialized(account)
	assert.True(t, changed)
	require.NotNil(t, initialized.LastBalanceUpdate)
	assert.True(t, initialized.LastBalanceUpdate.Equal(t0))

	_, changed = EnsureInitialized(initialized)
	assert.False(t, changed)
}

func TestCurrentBalanceRejectsClockSkew(t *testing.T) {
	account := newIdleAccount(t0)

	_, err := CurrentBalance(account, 0, t0.Add(-time.Minute))
	assert.True(t, errors.Is(err, domain.ErrInvalidTimestamp))
}

func TestActiveSessionWithoutTeam(t *testing.T) {
	account := newIdleAccount(t0)
	account.MiningRate = decimal.RequireFromString("0.04")

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)

	balance, err := CurrentBalance(started, 0, t0.Add(10*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "0.4", balance.Sub(started.BaseBalance))
}

func TestActiveSessionCapsAtTwentyFourHours(t *testing.T) {
	account := newIdleAccount(t0)
	account.MiningRate = decimal.RequireFromString("0.04")

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)

	balance, err := CurrentBalance(started, 0, t0.Add(30*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "0.96", balance.Sub(started.BaseBalance))
}

func TestActiveSessionAppliesTeamBonus(t *testing.T) {
	account := newIdleAccount(t0)
	account.TeamID = teamID("team-1")
	account.MiningRate = decimal.RequireFromString("1")

	started, err := StartSession(account, 3, t0)
	require.NoError(t, err)

	balance, err := CurrentBalance(started, 3, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "2.6", balance)
}

func TestActiveSessionNeverExceedsCap(t *testing.T) {
	account := newIdleAccount(t0)
	account.TeamID = teamID("team-1")
	account.BaseBalance = decimal.RequireFromString("5")

	started, err := StartSession(account, 4, t0)
	require.NoError(t, err)

	ceiling := started.BaseBalance.Add(ActiveRate(started.MiningRate, 4).Mul(decimal.NewFromInt(24)))
	previous := started.BaseBalance
	for hours := 0; hours <= 96; hours += 5 {
		balance, err := CurrentBalance(started, 4, t0.Add(time.Duration(hours)*time.Hour))
		require.NoError(t, err)
		assert.True(t, balance.LessThanOrEqual(ceiling), "balance above cap at +%dh", hours)
		assert.True(t, balance.GreaterThanOrEqual(previous), "balance decreased at +%dh", hours)
		previous = balance
	}
}

func TestStartSessionTwiceWithinWindowFails(t *testing.T) {
	account := newIdleAccount(t0)

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)

	assert.False(t, CanStartSession(started, t0.Add(5*time.Hour)))
	_, err = StartSession(started, 0, t0.Add(5*time.Hour))
	assert.ErrorIs(t, err, domain.ErrSessionInProgress)
}

func TestStartSessionAfterFullWindowRestarts(t *testing.T) {
	account := newIdleAccount(t0)
	account.MiningRate = decimal.RequireFromString("0.04")

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)
	require.True(t, CanStartSession(started, t0.Add(24*time.Hour)))

	restarted, err := StartSession(started, 0, t0.Add(26*time.Hour))
	require.NoError(t, err)

	assertDecimal(t, "0.96", restarted.BaseBalance)
	assert.True(t, restarted.MiningSessionStart.Equal(t0.Add(26*time.Hour)))
	assert.True(t, restarted.MiningSessionEnd.Equal(t0.Add(50*time.Hour)))
}

func TestStartSessionCheckpointsIdleAccrual(t *testing.T) {
	account := newIdleAccount(t0)

	started, err := StartSession(account, 0, t0.Add(4*time.Hour))
	require.NoError(t, err)

	assertDecimal(t, "0.2", started.BaseBalance)
	assert.Equal(t, domain.MiningStatusActive, started.MiningStatus)
	assert.True(t, started.LastBalanceUpdate.Equal(t0.Add(4*time.Hour)))
	assert.Equal(t, SessionLength, started.MiningSessionEnd.Sub(*started.MiningSessionStart))
}

func TestCompletedAndFailedAccountsCanStart(t *testing.T) {
	for _, status := range []domain.MiningStatus{domain.MiningStatusIdle, domain.MiningStatusCompleted, domain.MiningStatusFailed} {
		account := newIdleAccount(t0)
		account.MiningStatus = status
		assert.True(t, CanStartSession(account, t0), string(status))
	}
}

func TestCompleteSessionRequiresActiveSession(t *testing.T) {
	account := newIdleAccount(t0)

	_, _, err := CompleteSession(account, 0, t0.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestCompleteSessionReturnsSessionEarnings(t *testing.T) {
	account := newIdleAccount(t0)
	account.MiningRate = decimal.RequireFromString("0.04")
	account.BaseBalance = decimal.RequireFromString("1.5")

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)

	completed, earnings, err := CompleteSession(started, 0, t0.Add(24*time.Hour))
	require.NoError(t, err)

	assertDecimal(t, "0.96", earnings)
	assertDecimal(t, "2.46", completed.BaseBalance)
	assert.Equal(t, domain.MiningStatusCompleted, completed.MiningStatus)
	assert.Nil(t, completed.MiningSessionStart)
	assert.Nil(t, completed.MiningSessionEnd)
}

func TestCheckpointIsIdempotent(t *testing.T) {
	account := newIdleAccount(t0)
	now := t0.Add(7*time.Hour + 20*time.Minute)

	checkpointed, balance, err := Checkpoint(account, 0, now)
	require.NoError(t, err)

	again, err := CurrentBalance(checkpointed, 0, now)
	require.NoError(t, err)
	assert.True(t, balance.Equal(again))
}

func TestCheckpointInsideSessionDoesNotDoubleCount(t *testing.T) {
	account := newIdleAccount(t0)
	account.MiningRate = decimal.RequireFromString("0.04")

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)

	mid, balance, err := Checkpoint(started, 0, t0.Add(10*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "0.4", balance)

	again, err := CurrentBalance(mid, 0, t0.Add(10*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "0.4", again)

	final, err := CurrentBalance(mid, 0, t0.Add(40*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "0.96", final)
}

func TestReconcileSession(t *testing.T) {
	account := newIdleAccount(t0)
	account.MiningRate = decimal.RequireFromString("0.04")

	idle, earnings, err := ReconcileSession(account, 0, t0.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, earnings)
	assert.Equal(t, account, idle)

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)

	running, earnings, err := ReconcileSession(started, 0, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, earnings)
	assert.Equal(t, domain.MiningStatusActive, running.MiningStatus)

	expired, earnings, err := ReconcileSession(started, 0, t0.Add(24*time.Hour+time.Second))
	require.NoError(t, err)
	require.NotNil(t, earnings)
	assertDecimal(t, "0.96", *earnings)
	assert.Equal(t, domain.MiningStatusCompleted, expired.MiningStatus)
}

func TestSessionEarningsAndTimeRemaining(t *testing.T) {
	account := newIdleAccount(t0)
	account.MiningRate = decimal.RequireFromString("0.5")

	earnings, err := SessionEarnings(account, 0, t0.Add(3*time.Hour))
	require.NoError(t, err)
	assert.True(t, earnings.IsZero())
	assert.Zero(t, TimeRemaining(account, t0))

	started, err := StartSession(account, 0, t0)
	require.NoError(t, err)

	earnings, err = SessionEarnings(started, 0, t0.Add(3*time.Hour))
	require.NoError(t, err)
	assertDecimal(t, "1.5", earnings)
	assert.Equal(t, 21*time.Hour, TimeRemaining(started, t0.Add(3*time.Hour)))
	assert.Zero(t, TimeRemaining(started, t0.Add(25*time.Hour)))
}

func TestCreditReward(t *testing.T) {
	account := newIdleAccount(t0)

	credited, err := CreditReward(account, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assertDecimal(t, "2.5", credited.BaseBalance)

	_, err = CreditReward(account, decimal.Zero)
	assert.Error(t, err)
}
