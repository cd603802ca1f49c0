package implementations

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kook-app/mining-service/src/internal/domain"
)

var teamColumnNames = []string{"id", "name", "owner_id", "created_at", "updated_at", "member_count"}

func TestTeamRepositoryCreateAssignsOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("owner-1").
		WillReturnRows(accountRows("owner-1", nil, "0", domain.MiningStatusIdle))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO teams")).
		WithArgs("Diggers", "owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("team-1", fixedNow, fixedNow))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET team_id = $2")).
		WithArgs("owner-1", "team-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	team, err := repo.Create(context.Background(), domain.Team{Name: "Diggers", OwnerID: "owner-1"})
	require.NoError(t, err)

	assert.Equal(t, "team-1", team.ID)
	assert.Equal(t, 1, team.MemberCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryCreateRejectsOwnerInTeam(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(accountRows("owner-1", "team-9", "0", domain.MiningStatusIdle))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), domain.Team{Name: "Diggers", OwnerID: "owner-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyInTeam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryListWithMinMembers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("HAVING COUNT(a.id) >= $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(teamColumnNames).
			AddRow("team-1", "Diggers", "owner-1", fixedNow, fixedNow, 3).
			AddRow("team-2", "Miners", nil, fixedNow, fixedNow, 2))

	teams, err := repo.ListWithMinMembers(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, teams, 2)
	assert.Equal(t, 3, teams[0].MemberCount)
	assert.Equal(t, "", teams[1].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryAdjustOwnerPersistsChangedRate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM teams")).
		WithArgs("team-1").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("owner-1"))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("owner-1").
		WillReturnRows(accountRows("owner-1", "team-1", "0", domain.MiningStatusActive))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE team_id = $1 ORDER BY created_at")).
		WithArgs("team-1").
		WillReturnRows(sqlmock.NewRows(accountColumnNames).
			AddRow("owner-1", "Ada", "ada@example.com", "team-1", "0", "1.2", fixedNow, nil, nil, "idle", fixedNow, fixedNow).
			AddRow("member-1", "Bob", "bob@example.com", "team-1", "0", "0.25", fixedNow, nil, nil, "idle", fixedNow, fixedNow))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET base_balance = $2, mining_rate = $3, last_balance_update = $4")).
		WithArgs("owner-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var memberCount int
	owner, changed, err := repo.AdjustOwner(context.Background(), "team-1", func(owner domain.Account, members []domain.Account) (domain.Account, bool, error) {
		memberCount = len(members)
		owner.MiningRate = decimal.RequireFromString("1.195")
		return owner, true, nil
	})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, 2, memberCount)
	assert.True(t, owner.MiningRate.Equal(decimal.RequireFromString("1.195")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryAdjustOwnerSkipsTeamWithoutOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM teams")).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(nil))
	mock.ExpectRollback()

	_, changed, err := repo.AdjustOwner(context.Background(), "team-1", func(owner domain.Account, members []domain.Account) (domain.Account, bool, error) {
		t.Fatal("adjust must not run without an owner")
		return owner, false, nil
	})

	assert.ErrorIs(t, err, domain.ErrTeamWithoutOwner)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
