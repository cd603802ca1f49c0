package service_interfaces

import (
	"context"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/commons"
)

type TeamService interface {
	CreateTeam(ctx context.Context, req models.CreateTeamRequest) (commons.Response[models.TeamResponse], error)
	GetTeam(ctx context.Context, teamID string) (commons.Response[models.TeamResponse], error)
	JoinTeam(ctx context.Context, teamID string, req models.JoinTeamRequest) (commons.Response[models.TeamResponse], error)
	ListMembers(ctx context.Context, teamID string) (commons.Response[[]models.TeamMemberResponse], error)
}

// TeamActivityRunner applies the team activity decay rule to every eligible team.
type TeamActivityRunner interface {
	Run(ctx context.Context) (TeamActivityReport, error)
}

type TeamActivityReport struct {
	TeamsChecked  int
	OwnersDecayed int
	Skipped       int
}
