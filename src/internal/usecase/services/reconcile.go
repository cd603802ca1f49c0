package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/metrics"
	"github.com/kook-app/mining-service/src/internal/mining"
)

type reconciledAccount struct {
	account  domain.Account
	teamSize int
}

// reconcileAccount finishes an expired session and then runs next, all under
// the account lock held by Mutate. next may be nil.
func reconcileAccount(
	ctx context.Context,
	accountRepo repo_interfaces.AccountRepository,
	accountID string,
	now time.Time,
	next repo_interfaces.AccountMutation,
) (reconciledAccount, error) {
	if err := requireID(accountID, commons.ErrRecordNotFound); err != nil {
		return reconciledAccount{}, err
	}

	var (
		teamSize  int
		completed *decimal.Decimal
	)

	updated, err := accountRepo.Mutate(ctx, accountID, func(account domain.Account, size int) (domain.Account, error) {
		teamSize = size
		account, _ = mining.EnsureInitialized(account)

		account, earnings, err := mining.ReconcileSession(account, size, now)
		if err != nil {
			return domain.Account{}, err
		}
		completed = earnings

		if next == nil {
			return account, nil
		}
		return next(account, size)
	})
	if err != nil {
		return reconciledAccount{}, err
	}

	if completed != nil {
		metrics.RecordSessionCompleted(metrics.TriggerReconcile)
		logger.Info("mining session completed on reconcile", logger.Fields{
			"accountId": accountID,
			"earnings":  completed.String(),
		})
	}

	return reconciledAccount{account: updated, teamSize: teamSize}, nil
}
