package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kook-app/mining-service/src/internal/domain"
)

const accountColumns = `id, name, email, team_id, base_balance, mining_rate, last_balance_update, mining_session_start, mining_session_end, mining_status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account           domain.Account
		teamID            sql.NullString
		lastBalanceUpdate sql.NullTime
		sessionStart      sql.NullTime
		sessionEnd        sql.NullTime
	)

	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&teamID,
		&account.BaseBalance,
		&account.MiningRate,
		&lastBalanceUpdate,
		&sessionStart,
		&sessionEnd,
		&account.MiningStatus,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	if teamID.Valid {
		value := teamID.String
		account.TeamID = &value
	}
	account.LastBalanceUpdate = nullTimePtr(lastBalanceUpdate)
	account.MiningSessionStart = nullTimePtr(sessionStart)
	account.MiningSessionEnd = nullTimePtr(sessionEnd)

	return account, nil
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

// updateAccountState writes every engine-owned column of the account.
func updateAccountState(ctx context.Context, q queryRower, account domain.Account) (domain.Account, error) {
	const query = `
UPDATE accounts
SET team_id = $2,
    base_balance = $3,
    mining_rate = $4,
    last_balance_update = $5,
    mining_session_start = $6,
    mining_session_end = $7,
    mining_status = $8,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns

	updated, err := scanAccount(q.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.TeamID,
		account.BaseBalance,
		account.MiningRate,
		account.LastBalanceUpdate,
		account.MiningSessionStart,
		account.MiningSessionEnd,
		string(account.MiningStatus),
	))
	if err != nil {
		return domain.Account{}, fmt.Errorf("update account state: %w", err)
	}

	return updated, nil
}

func lockAccount(ctx context.Context, tx *sql.Tx, id string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	return scanAccount(tx.QueryRowContext(ctx, query, id))
}

func countTeamMembers(ctx context.Context, q queryRower, teamID *string) (int, error) {
	if teamID == nil {
		return 0, nil
	}

	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE team_id = $1`, *teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count team members: %w", err)
	}
	return count, nil
}
