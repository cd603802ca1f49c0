package implementations

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
)

var accountColumnNames = []string{
	"id", "name", "email", "team_id", "base_balance", "mining_rate", "last_balance_update",
	"mining_session_start", "mining_session_end", "mining_status", "created_at", "updated_at",
}

var fixedNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func accountRows(id string, teamID any, balance string, status domain.MiningStatus) *sqlmock.Rows {
	return sqlmock.NewRows(accountColumnNames).AddRow(
		id, "Ada", "ada@example.com", teamID, balance, "0.25", fixedNow, nil, nil, string(status), fixedNow, fixedNow,
	)
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func TestAccountRepositoryGetByIDScansNullableColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("acc-1").
		WillReturnRows(accountRows("acc-1", nil, "12.5", domain.MiningStatusIdle))

	account, err := repo.GetByID(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, "acc-1", account.ID)
	assert.Nil(t, account.TeamID)
	assert.Nil(t, account.MiningSessionStart)
	assert.Equal(t, domain.MiningStatusIdle, account.MiningStatus)
	assert.True(t, account.BaseBalance.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, account.LastBalanceUpdate)
	assert.True(t, account.LastBalanceUpdate.Equal(fixedNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, commons.ErrRecordNotFound)
}

func TestAccountRepositoryMutateCommitsWithTeamSize(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("acc-1").
		WillReturnRows(accountRows("acc-1", "team-1", "1", domain.MiningStatusIdle))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM accounts WHERE team_id = $1")).
		WithArgs("team-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts")).
		WillReturnRows(accountRows("acc-1", "team-1", "2", domain.MiningStatusIdle))
	mock.ExpectCommit()

	var seenTeamSize int
	updated, err := repo.Mutate(context.Background(), "acc-1", func(account domain.Account, teamSize int) (domain.Account, error) {
		seenTeamSize = teamSize
		account.BaseBalance = account.BaseBalance.Add(decimal.NewFromInt(1))
		return account, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, seenTeamSize)
	assert.True(t, updated.BaseBalance.Equal(decimal.NewFromInt(2)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryMutateSkipsWriteWhenUnchanged(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("acc-1").
		WillReturnRows(accountRows("acc-1", nil, "4.5", domain.MiningStatusIdle))
	mock.ExpectCommit()

	account, err := repo.Mutate(context.Background(), "acc-1", func(account domain.Account, teamSize int) (domain.Account, error) {
		return account, nil
	})
	require.NoError(t, err)

	assert.True(t, account.BaseBalance.Equal(decimal.RequireFromString("4.5")))
	assert.True(t, account.UpdatedAt.Equal(fixedNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryMutateRollsBackOnMutationError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(accountRows("acc-1", nil, "1", domain.MiningStatusActive))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), "acc-1", func(account domain.Account, teamSize int) (domain.Account, error) {
		return domain.Account{}, domain.ErrSessionInProgress
	})

	assert.ErrorIs(t, err, domain.ErrSessionInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryMutateMissingAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	called := false
	_, err := repo.Mutate(context.Background(), "missing", func(account domain.Account, teamSize int) (domain.Account, error) {
		called = true
		return account, nil
	})

	assert.ErrorIs(t, err, commons.ErrRecordNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryTotals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(base_balance), 0)")).
		WithArgs(fixedNow, fixedNow.Add(-24*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"active", "new_active", "rate", "supply"}).AddRow(3, 1, "0.75", "1250.5"))

	totals, err := repo.Totals(context.Background(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 3, totals.ActiveMiners)
	assert.Equal(t, 1, totals.NewActiveMiners)
	assert.True(t, totals.ActiveMiningRate.Equal(decimal.RequireFromString("0.75")))
	assert.True(t, totals.TotalSupply.Equal(decimal.RequireFromString("1250.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
