package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/metrics"
	"github.com/kook-app/mining-service/src/internal/mining"
)

// recentActivityWindow is how long after finishing a session a member still
// counts as active in the statistics.
const recentActivityWindow = 24 * time.Hour

type MiningService struct {
	accountRepo repo_interfaces.AccountRepository
	teamRepo    repo_interfaces.TeamRepository
	now         func() time.Time
}

func NewMiningService(
	accountRepo repo_interfaces.AccountRepository,
	teamRepo repo_interfaces.TeamRepository,
	now func() time.Time,
) *MiningService {
	if now == nil {
		now = time.Now
	}
	return &MiningService{
		accountRepo: accountRepo,
		teamRepo:    teamRepo,
		now:         now,
	}
}

func (s *MiningService) GetStatus(ctx context.Context, accountID string) (commons.Response[models.MiningStatusResponse], error) {
	accountID = strings.TrimSpace(accountID)
	now := s.now()

	reconciled, err := reconcileAccount(ctx, s.accountRepo, accountID, now, nil)
	if err != nil {
		return miningFailure[models.MiningStatusResponse]("An error occurred while checking mining status.", accountID, err)
	}

	status, err := statusOf(reconciled, now)
	if err != nil {
		return miningFailure[models.MiningStatusResponse]("An error occurred while checking mining status.", accountID, err)
	}

	return commons.SuccessResponse("mining status fetched successfully", status), nil
}

func (s *MiningService) GetStatistics(ctx context.Context, accountID string) (commons.Response[models.MiningStatisticsResponse], error) {
	accountID = strings.TrimSpace(accountID)
	now := s.now()

	reconciled, err := reconcileAccount(ctx, s.accountRepo, accountID, now, nil)
	if err != nil {
		return miningFailure[models.MiningStatisticsResponse]("An error occurred while retrieving mining statistics.", accountID, err)
	}
	account := reconciled.account

	members := []domain.Account{account}
	if account.TeamID != nil {
		members, err = s.teamRepo.ListMembers(ctx, *account.TeamID)
		if err != nil {
			return miningFailure[models.MiningStatisticsResponse]("An error occurred while retrieving mining statistics.", accountID, err)
		}
	}

	active := 0
	for _, member := range members {
		if recentlyActive(member, now) {
			active++
		}
	}

	balance, err := mining.CurrentBalance(account, reconciled.teamSize, now)
	if err != nil {
		return miningFailure[models.MiningStatisticsResponse]("An error occurred while retrieving mining statistics.", accountID, err)
	}

	status, err := statusOf(reconciled, now)
	if err != nil {
		return miningFailure[models.MiningStatisticsResponse]("An error occurred while retrieving mining statistics.", accountID, err)
	}

	var rateBonus *string
	if account.TeamID != nil {
		bonus := mining.ActiveRate(account.MiningRate, reconciled.teamSize).Sub(account.MiningRate)
		if bonus.IsPositive() {
			formatted := "+" + commons.Amount(bonus)
			rateBonus = &formatted
		}
	}

	response := models.MiningStatisticsResponse{
		Balance:         commons.Amount(balance),
		MiningRate:      commons.Amount(account.MiningRate),
		MiningRateBonus: rateBonus,
		TeamSize:        len(members),
		ActiveMembers:   active,
		InactiveMembers: len(members) - active,
		DaysActive:      daysActive(account, now),
		MiningStatus:    status,
	}

	return commons.SuccessResponse("mining statistics fetched successfully", response), nil
}

func (s *MiningService) GetRealTimeBalance(ctx context.Context, accountID string) (commons.Response[models.RealTimeBalanceResponse], error) {
	accountID = strings.TrimSpace(accountID)
	now := s.now()

	reconciled, err := reconcileAccount(ctx, s.accountRepo, accountID, now, nil)
	if err != nil {
		return miningFailure[models.RealTimeBalanceResponse]("An error occurred while retrieving real-time balance.", accountID, err)
	}
	account := reconciled.account

	balance, err := mining.CurrentBalance(account, reconciled.teamSize, now)
	if err != nil {
		return miningFailure[models.RealTimeBalanceResponse]("An error occurred while retrieving real-time balance.", accountID, err)
	}

	response := models.RealTimeBalanceResponse{
		CurrentBalance:         commons.Amount(balance),
		BaseBalance:            commons.Amount(account.BaseBalance),
		CurrentSessionEarnings: commons.Amount(balance.Sub(account.BaseBalance)),
		MiningStatus:           string(account.MiningStatus),
	}

	return commons.SuccessResponse("real-time balance fetched successfully", response), nil
}

func (s *MiningService) StartMining(ctx context.Context, accountID string) (commons.Response[models.StartMiningResponse], error) {
	accountID = strings.TrimSpace(accountID)
	now := s.now()

	logger.Info("mining service start mining request", logger.Fields{
		"accountId": accountID,
	})

	reconciled, err := reconcileAccount(ctx, s.accountRepo, accountID, now, func(account domain.Account, teamSize int) (domain.Account, error) {
		return mining.StartSession(account, teamSize, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionInProgress) {
			logger.Info("mining service start mining rejected", logger.Fields{
				"accountId": accountID,
			})
			return commons.ErrorResponse[models.StartMiningResponse](err.Error()), err
		}
		return miningFailure[models.StartMiningResponse]("An error occurred while starting mining.", accountID, err)
	}
	account := reconciled.account

	metrics.RecordSessionStarted()
	logger.Info("mining service start mining success", logger.Fields{
		"accountId":    accountID,
		"sessionStart": formatTime(account.MiningSessionStart),
		"baseBalance":  account.BaseBalance.String(),
	})

	response := models.StartMiningResponse{
		MiningStatus:   string(account.MiningStatus),
		InitialBalance: commons.Amount(account.BaseBalance),
	}
	if start := formatTime(account.MiningSessionStart); start != nil {
		response.SessionStart = *start
	}
	if end := formatTime(account.MiningSessionEnd); end != nil {
		response.SessionEnd = *end
	}

	return commons.SuccessResponse("Mining started successfully", response), nil
}

// CompleteMining finishes the session once its 24 hours are over. Earlier
// requests are refused and the session keeps running.
func (s *MiningService) CompleteMining(ctx context.Context, accountID string) (commons.Response[models.CompleteMiningResponse], error) {
	accountID = strings.TrimSpace(accountID)
	now := s.now()

	logger.Info("mining service complete mining request", logger.Fields{
		"accountId": accountID,
	})

	if err := requireID(accountID, commons.ErrRecordNotFound); err != nil {
		return miningFailure[models.CompleteMiningResponse]("An error occurred while completing mining.", accountID, err)
	}

	var earnings decimal.Decimal
	account, err := s.accountRepo.Mutate(ctx, accountID, func(account domain.Account, teamSize int) (domain.Account, error) {
		account, _ = mining.EnsureInitialized(account)
		if !account.IsMining() {
			return domain.Account{}, domain.ErrNoActiveSession
		}
		if account.MiningSessionEnd != nil && now.Before(*account.MiningSessionEnd) {
			return domain.Account{}, domain.ErrSessionNotFinished
		}

		completed, earned, err := mining.CompleteSession(account, teamSize, now)
		if err != nil {
			return domain.Account{}, err
		}
		earnings = earned
		return completed, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) || errors.Is(err, domain.ErrSessionNotFinished) {
			logger.Info("mining service complete mining rejected", logger.Fields{
				"accountId": accountID,
				"reason":    err.Error(),
			})
			return commons.ErrorResponse[models.CompleteMiningResponse](err.Error()), err
		}
		return miningFailure[models.CompleteMiningResponse]("An error occurred while completing mining.", accountID, err)
	}

	metrics.RecordSessionCompleted(metrics.TriggerManual)
	logger.Info("mining service complete mining success", logger.Fields{
		"accountId": accountID,
		"earnings":  earnings.String(),
	})

	response := models.CompleteMiningResponse{
		Earnings:     commons.Amount(earnings),
		TotalBalance: commons.Amount(account.BaseBalance),
		MiningStatus: string(account.MiningStatus),
		DaysActive:   daysActive(account, now),
	}

	return commons.SuccessResponse("Mining session completed", response), nil
}

// GetNetworkStats reports network-wide mining totals. Supply counts
// checkpointed balances only.
func (s *MiningService) GetNetworkStats(ctx context.Context) (commons.Response[models.NetworkStatsResponse], error) {
	totals, err := s.accountRepo.Totals(ctx, s.now())
	if err != nil {
		logger.Error("mining service network stats failed", err, nil)
		return commons.ErrorResponse[models.NetworkStatsResponse]("An error occurred while retrieving network statistics.", "Unable to process request right now"), err
	}

	percentage := totals.TotalSupply.Div(domain.MaxSupply).Mul(decimal.NewFromInt(100))
	response := models.NetworkStatsResponse{
		ActiveMiners:     totals.ActiveMiners,
		NewActiveMiners:  totals.NewActiveMiners,
		ActiveMiningRate: commons.Amount(totals.ActiveMiningRate),
		TotalSupply:      commons.Amount(totals.TotalSupply),
		MaxSupply:        commons.Amount(domain.MaxSupply),
		SupplyPercentage: commons.Amount(percentage),
	}

	return commons.SuccessResponse("network statistics fetched successfully", response), nil
}

func statusOf(reconciled reconciledAccount, now time.Time) (models.MiningStatusResponse, error) {
	account := reconciled.account

	earnings, err := mining.SessionEarnings(account, reconciled.teamSize, now)
	if err != nil {
		return models.MiningStatusResponse{}, err
	}

	return models.MiningStatusResponse{
		MiningStatus:           string(account.MiningStatus),
		SessionStart:           formatTime(account.MiningSessionStart),
		SessionEnd:             formatTime(account.MiningSessionEnd),
		TimeRemaining:          timeRemaining(mining.TimeRemaining(account, now)),
		CurrentSessionEarnings: commons.Amount(earnings),
		CanStartMining:         mining.CanStartSession(account, now),
	}, nil
}

// recentlyActive reports whether a member is mining now or finished a session
// within the last day.
func recentlyActive(member domain.Account, now time.Time) bool {
	if member.IsMining() {
		return member.MiningSessionEnd == nil || !member.MiningSessionEnd.Before(now.Add(-recentActivityWindow))
	}
	if member.MiningStatus != domain.MiningStatusCompleted || member.LastBalanceUpdate == nil {
		return false
	}
	return !member.LastBalanceUpdate.Before(now.Add(-recentActivityWindow))
}

func miningFailure[T any](message string, accountID string, err error) (commons.Response[T], error) {
	if errors.Is(err, commons.ErrRecordNotFound) {
		return commons.ErrorResponse[T]("Account not found"), err
	}
	logger.Error("mining service request failed", err, logger.Fields{
		"accountId": accountID,
		"message":   message,
	})
	return commons.ErrorResponse[T](message, "Unable to process request right now"), err
}
