package repo_interfaces

import (
	"context"

	"github.com/kook-app/mining-service/src/internal/domain"
)

// OwnerAdjustment receives the locked team owner and every team member and
// reports the owner state to persist and whether anything changed.
type OwnerAdjustment func(owner domain.Account, members []domain.Account) (domain.Account, bool, error)

type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) (domain.Team, error)
	GetByID(ctx context.Context, id string) (domain.Team, error)
	ListMembers(ctx context.Context, teamID string) ([]domain.Account, error)
	ListWithMinMembers(ctx context.Context, minMembers int) ([]domain.Team, error)
	AdjustOwner(ctx context.Context, teamID string, adjust OwnerAdjustment) (domain.Account, bool, error)
}
