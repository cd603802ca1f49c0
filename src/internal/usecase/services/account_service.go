package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/mining"
)

type AccountService struct {
	accountRepo       repo_interfaces.AccountRepository
	defaultMiningRate decimal.Decimal
	now               func() time.Time
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	defaultMiningRate decimal.Decimal,
	now func() time.Time,
) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		accountRepo:       accountRepo,
		defaultMiningRate: defaultMiningRate,
		now:               now,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrValidation, err)
	}

	now := s.now().UTC()
	account, _ := mining.EnsureInitialized(domain.Account{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		BaseBalance: decimal.Zero,
		MiningRate:  s.defaultMiningRate,
		CreatedAt:   now,
	})

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return commons.ErrorResponse[models.AccountResponse](err.Error()), err
		}
		logger.Error("account service create account persist failed", err, logger.Fields{
			"email": account.Email,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId": created.ID,
	})

	return commons.SuccessResponse("account created successfully", toAccountResponse(created, created.BaseBalance)), nil
}

// GetAccount returns the account with its balance evaluated at the current
// instant, completing an expired session first.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	accountID = strings.TrimSpace(accountID)
	now := s.now()

	reconciled, err := reconcileAccount(ctx, s.accountRepo, accountID, now, nil)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service get account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to fetch account", "Unable to fetch account right now"), err
	}

	balance, err := mining.CurrentBalance(reconciled.account, reconciled.teamSize, now)
	if err != nil {
		logger.Error("account service current balance failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to fetch account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", toAccountResponse(reconciled.account, balance)), nil
}

func toAccountResponse(account domain.Account, balance decimal.Decimal) models.AccountResponse {
	return models.AccountResponse{
		ID:                account.ID,
		Name:              account.Name,
		Email:             account.Email,
		TeamID:            account.TeamID,
		Balance:           commons.Amount(balance),
		BaseBalance:       commons.Amount(account.BaseBalance),
		MiningRate:        commons.Amount(account.MiningRate),
		MiningStatus:      string(account.MiningStatus),
		LastBalanceUpdate: formatTime(account.LastBalanceUpdate),
		CreatedAt:         account.CreatedAt.UTC().Format(time.RFC3339),
	}
}
