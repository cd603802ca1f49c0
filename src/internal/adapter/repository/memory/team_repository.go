package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) Create(_ context.Context, team domain.Team) (domain.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	owner, ok := r.store.accounts[team.OwnerID]
	if !ok {
		return domain.Team{}, commons.ErrRecordNotFound
	}
	if owner.TeamID != nil {
		return domain.Team{}, domain.ErrAlreadyInTeam
	}

	now := r.store.now()
	team.ID = uuid.NewString()
	team.CreatedAt = now
	team.UpdatedAt = now
	r.store.teams[team.ID] = team

	teamID := team.ID
	owner.TeamID = &teamID
	owner.UpdatedAt = now
	r.store.accounts[owner.ID] = owner

	team.MemberCount = 1
	return team, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (domain.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	team, ok := r.store.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	team.MemberCount = r.store.teamSize(&team.ID)
	return team, nil
}

func (r *TeamRepository) ListMembers(_ context.Context, teamID string) ([]domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.members(teamID), nil
}

func (r *TeamRepository) ListWithMinMembers(_ context.Context, minMembers int) ([]domain.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	teams := make([]domain.Team, 0)
	for _, team := range r.store.teams {
		team.MemberCount = r.store.teamSize(&team.ID)
		if team.MemberCount >= minMembers {
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})

	return teams, nil
}

func (r *TeamRepository) AdjustOwner(_ context.Context, teamID string, adjust repo_interfaces.OwnerAdjustment) (domain.Account, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	team, ok := r.store.teams[teamID]
	if !ok {
		return domain.Account{}, false, domain.ErrTeamNotFound
	}
	owner, ok := r.store.accounts[team.OwnerID]
	if team.OwnerID == "" || !ok {
		return domain.Account{}, false, domain.ErrTeamWithoutOwner
	}

	next, changed, err := adjust(cloneAccount(owner), r.store.members(teamID))
	if err != nil {
		return domain.Account{}, false, err
	}
	if changed {
		owner.BaseBalance = next.BaseBalance
		owner.MiningRate = next.MiningRate
		owner.LastBalanceUpdate = cloneTime(next.LastBalanceUpdate)
		owner.UpdatedAt = r.store.now()
		r.store.accounts[owner.ID] = owner
	}

	return cloneAccount(owner), changed, nil
}
