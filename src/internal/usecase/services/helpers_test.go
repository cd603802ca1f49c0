package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/adapter/repository/memory"
	"github.com/kook-app/mining-service/src/internal/usecase/services"
)

var t0 = time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fixture struct {
	clock    *testClock
	store    *memory.Store
	accounts *memory.AccountRepository
	teams    *memory.TeamRepository
	tasks    *memory.TaskRepository

	accountService *services.AccountService
	miningService  *services.MiningService
	teamService    *services.TeamService
}

func newFixture() *fixture {
	clock := &testClock{now: t0}
	store := memory.NewStore(clock.Now)
	accounts := memory.NewAccountRepository(store)
	teams := memory.NewTeamRepository(store)

	return &fixture{
		clock:          clock,
		store:          store,
		accounts:       accounts,
		teams:          teams,
		tasks:          memory.NewTaskRepository(store),
		accountService: services.NewAccountService(accounts, decimal.RequireFromString("0.25"), clock.Now),
		miningService:  services.NewMiningService(accounts, teams, clock.Now),
		teamService:    services.NewTeamService(teams, accounts, clock.Now),
	}
}

func (f *fixture) createAccount(t *testing.T, email string) string {
	t.Helper()

	resp, err := f.accountService.CreateAccount(context.Background(), models.CreateAccountRequest{Name: "Miner", Email: email})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	return resp.Data.ID
}

func (f *fixture) createTeam(t *testing.T, ownerID string, memberIDs ...string) string {
	t.Helper()

	resp, err := f.teamService.CreateTeam(context.Background(), models.CreateTeamRequest{Name: "Diggers", OwnerID: ownerID})
	require.NoError(t, err)
	teamID := resp.Data.ID

	for _, memberID := range memberIDs {
		_, err := f.teamService.JoinTeam(context.Background(), teamID, models.JoinTeamRequest{AccountID: memberID})
		require.NoError(t, err)
	}
	return teamID
}
