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

type TeamService struct {
	teamRepo    repo_interfaces.TeamRepository
	accountRepo repo_interfaces.AccountRepository
	now         func() time.Time
}

func NewTeamService(
	teamRepo repo_interfaces.TeamRepository,
	accountRepo repo_interfaces.AccountRepository,
	now func() time.Time,
) *TeamService {
	if now == nil {
		now = time.Now
	}
	return &TeamService{
		teamRepo:    teamRepo,
		accountRepo: accountRepo,
		now:         now,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, req models.CreateTeamRequest) (commons.Response[models.TeamResponse], error) {
	logger.Info("team service create team request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TeamResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrValidation, err)
	}

	if err := requireID(strings.TrimSpace(req.OwnerID), commons.ErrRecordNotFound); err != nil {
		return teamFailure("failed to create team", err)
	}

	created, err := s.teamRepo.Create(ctx, domain.Team{
		Name:    strings.TrimSpace(req.Name),
		OwnerID: strings.TrimSpace(req.OwnerID),
	})
	if err != nil {
		return teamFailure("failed to create team", err)
	}

	logger.Info("team service create team success", logger.Fields{
		"teamId":  created.ID,
		"ownerId": created.OwnerID,
	})

	return commons.SuccessResponse("team created successfully", toTeamResponse(created)), nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (commons.Response[models.TeamResponse], error) {
	teamID = strings.TrimSpace(teamID)
	if err := requireID(teamID, domain.ErrTeamNotFound); err != nil {
		return teamFailure("failed to fetch team", err)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return teamFailure("failed to fetch team", err)
	}

	return commons.SuccessResponse("team fetched successfully", toTeamResponse(team)), nil
}

// JoinTeam moves an account into a team. Whatever the account accrued under
// its previous team size is checkpointed before the membership changes.
func (s *TeamService) JoinTeam(ctx context.Context, teamID string, req models.JoinTeamRequest) (commons.Response[models.TeamResponse], error) {
	logger.Info("team service join team request", logger.Fields{
		"teamId":  teamID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TeamResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrValidation, err)
	}

	teamID = strings.TrimSpace(teamID)
	accountID := strings.TrimSpace(req.AccountID)
	if err := requireID(teamID, domain.ErrTeamNotFound); err != nil {
		return teamFailure("failed to join team", err)
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return teamFailure("failed to join team", err)
	}

	now := s.now()
	_, err := reconcileAccount(ctx, s.accountRepo, accountID, now, func(account domain.Account, teamSize int) (domain.Account, error) {
		if account.TeamID != nil {
			return domain.Account{}, domain.ErrAlreadyInTeam
		}

		account, _, err := mining.Checkpoint(account, teamSize, now)
		if err != nil {
			return domain.Account{}, err
		}
		joined := teamID
		account.TeamID = &joined
		return account, nil
	})
	if err != nil {
		return teamFailure("failed to join team", err)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return teamFailure("failed to join team", err)
	}

	logger.Info("team service join team success", logger.Fields{
		"teamId":      teamID,
		"accountId":   accountID,
		"memberCount": team.MemberCount,
	})

	return commons.SuccessResponse("joined team successfully", toTeamResponse(team)), nil
}

// ListMembers returns the team's members with their recent mining activity,
// owner first.
func (s *TeamService) ListMembers(ctx context.Context, teamID string) (commons.Response[[]models.TeamMemberResponse], error) {
	teamID = strings.TrimSpace(teamID)
	if err := requireID(teamID, domain.ErrTeamNotFound); err != nil {
		return commons.ErrorResponse[[]models.TeamMemberResponse](err.Error()), err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return teamMembersFailure(teamID, err)
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return teamMembersFailure(teamID, err)
	}

	now := s.now()
	response := make([]models.TeamMemberResponse, 0, len(members))
	for _, member := range members {
		entry := models.TeamMemberResponse{
			ID:         member.ID,
			Name:       member.Name,
			IsOwner:    member.ID == team.OwnerID,
			IsActive:   recentlyActive(member, now),
			MiningRate: commons.Amount(member.MiningRate),
			JoinedAt:   member.CreatedAt.UTC().Format(time.RFC3339),
			LastActive: formatTime(member.LastBalanceUpdate),
		}
		if entry.IsOwner {
			response = append([]models.TeamMemberResponse{entry}, response...)
			continue
		}
		response = append(response, entry)
	}

	return commons.SuccessResponse("team members fetched successfully", response), nil
}

func teamMembersFailure(teamID string, err error) (commons.Response[[]models.TeamMemberResponse], error) {
	if errors.Is(err, domain.ErrTeamNotFound) {
		return commons.ErrorResponse[[]models.TeamMemberResponse](err.Error()), err
	}
	logger.Error("team service list members failed", err, logger.Fields{
		"teamId": teamID,
	})
	return commons.ErrorResponse[[]models.TeamMemberResponse]("failed to fetch team members", "Unable to process request right now"), err
}

func teamBonus(memberCount int) decimal.Decimal {
	return mining.TeamBonusPerMember.Mul(decimal.NewFromInt(int64(memberCount)))
}

func teamFailure(message string, err error) (commons.Response[models.TeamResponse], error) {
	switch {
	case errors.Is(err, domain.ErrTeamNotFound), errors.Is(err, domain.ErrAlreadyInTeam):
		return commons.ErrorResponse[models.TeamResponse](err.Error()), err
	case errors.Is(err, commons.ErrRecordNotFound):
		return commons.ErrorResponse[models.TeamResponse]("Account not found"), err
	}

	logger.Error("team service request failed", err, logger.Fields{
		"message": message,
	})
	return commons.ErrorResponse[models.TeamResponse](message, "Unable to process request right now"), err
}
