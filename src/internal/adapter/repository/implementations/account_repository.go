package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"email": account.Email,
	})

	const query = `
INSERT INTO accounts (
	name,
	email,
	base_balance,
	mining_rate,
	last_balance_update,
	mining_status,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + accountColumns

	created, err := scanAccount(r.db.QueryRowContext(
		ctx,
		query,
		account.Name,
		account.Email,
		account.BaseBalance,
		account.MiningRate,
		account.LastBalanceUpdate,
		string(account.MiningStatus),
		account.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrEmailTaken
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"email": account.Email,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId": created.ID,
	})

	return created, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": id,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Totals(ctx context.Context, now time.Time) (domain.NetworkTotals, error) {
	const query = `
SELECT COUNT(1) FILTER (WHERE mining_status = 'active' AND mining_session_end > $1),
       COUNT(1) FILTER (WHERE mining_status = 'active' AND mining_session_end > $1 AND created_at >= $2),
       COALESCE(SUM(mining_rate) FILTER (WHERE mining_status = 'active' AND mining_session_end > $1), 0),
       COALESCE(SUM(base_balance), 0)
FROM accounts`

	var totals domain.NetworkTotals
	err := r.db.QueryRowContext(ctx, query, now, now.Add(-24*time.Hour)).Scan(
		&totals.ActiveMiners,
		&totals.NewActiveMiners,
		&totals.ActiveMiningRate,
		&totals.TotalSupply,
	)
	if err != nil {
		logger.Error("account repository totals failed", err, nil)
		return domain.NetworkTotals{}, fmt.Errorf("sum account totals: %w", err)
	}

	return totals, nil
}

// Mutate locks the account row for the duration of the mutation so that
// concurrent requests for the same account apply one after another. Nothing is
// written when the mutation leaves the account as it was.
func (r *AccountRepository) Mutate(ctx context.Context, id string, mutate repo_interfaces.AccountMutation) (updated domain.Account, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("account repository begin tx failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("begin account transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	current, err := lockAccount(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("lock account: %w", err)
	}

	teamSize, err := countTeamMembers(ctx, tx, current.TeamID)
	if err != nil {
		return domain.Account{}, err
	}

	next, err := mutate(current, teamSize)
	if err != nil {
		return domain.Account{}, err
	}

	if next.SameState(current) {
		if err = tx.Commit(); err != nil {
			return domain.Account{}, fmt.Errorf("commit account transaction: %w", err)
		}
		return current, nil
	}

	updated, err = updateAccountState(ctx, tx, next)
	if err != nil {
		logger.Error("account repository mutate update failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("account repository commit tx failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("commit account transaction: %w", err)
	}

	return updated, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
