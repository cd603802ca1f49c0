package services

import (
	"time"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
)

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(time.RFC3339)
	return &formatted
}

func daysActive(account domain.Account, now time.Time) int64 {
	if account.CreatedAt.IsZero() || now.Before(account.CreatedAt) {
		return 0
	}
	return int64(now.Sub(account.CreatedAt) / (24 * time.Hour))
}

func timeRemaining(remaining time.Duration) *models.TimeRemaining {
	if remaining <= 0 {
		return nil
	}
	total := int64(remaining / time.Second)
	return &models.TimeRemaining{
		Hours:        total / 3600,
		Minutes:      (total % 3600) / 60,
		Seconds:      total % 60,
		TotalSeconds: total,
	}
}

func toTeamResponse(team domain.Team) models.TeamResponse {
	return models.TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		OwnerID:     team.OwnerID,
		MemberCount: team.MemberCount,
		TeamBonus:   commons.Amount(teamBonus(team.MemberCount)),
		CreatedAt:   team.CreatedAt.UTC().Format(time.RFC3339),
	}
}
