package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
)

const teamColumns = `t.id, t.name, t.owner_id, t.created_at, t.updated_at`

type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func scanTeam(row rowScanner) (domain.Team, error) {
	var (
		team    domain.Team
		ownerID sql.NullString
	)
	if err := row.Scan(&team.ID, &team.Name, &ownerID, &team.CreatedAt, &team.UpdatedAt, &team.MemberCount); err != nil {
		return domain.Team{}, err
	}
	team.OwnerID = ownerID.String
	return team, nil
}

// Create inserts the team and moves its owner into it in one transaction.
func (r *TeamRepository) Create(ctx context.Context, team domain.Team) (created domain.Team, err error) {
	logger.Info("team repository create", logger.Fields{
		"ownerId": team.OwnerID,
		"name":    team.Name,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Team{}, fmt.Errorf("begin team transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	owner, err := lockAccount(ctx, tx, team.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Team{}, commons.ErrRecordNotFound
		}
		return domain.Team{}, fmt.Errorf("lock team owner: %w", err)
	}
	if owner.TeamID != nil {
		return domain.Team{}, domain.ErrAlreadyInTeam
	}

	const insertTeam = `
INSERT INTO teams (name, owner_id)
VALUES ($1, $2)
RETURNING id, created_at, updated_at`

	if err = tx.QueryRowContext(ctx, insertTeam, team.Name, team.OwnerID).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt); err != nil {
		logger.Error("team repository create failed", err, logger.Fields{
			"ownerId": team.OwnerID,
		})
		return domain.Team{}, fmt.Errorf("create team: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE accounts SET team_id = $2, updated_at = NOW() WHERE id = $1`, team.OwnerID, team.ID); err != nil {
		return domain.Team{}, fmt.Errorf("assign team owner: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Team{}, fmt.Errorf("commit team transaction: %w", err)
	}

	team.MemberCount = 1
	logger.Info("team repository create success", logger.Fields{
		"teamId":  team.ID,
		"ownerId": team.OwnerID,
	})

	return team, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (domain.Team, error) {
	const query = `
SELECT ` + teamColumns + `,
       (SELECT COUNT(1) FROM accounts a WHERE a.team_id = t.id)
FROM teams t
WHERE t.id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Team{}, domain.ErrTeamNotFound
		}
		logger.Error("team repository get failed", err, logger.Fields{
			"teamId": id,
		})
		return domain.Team{}, fmt.Errorf("get team by id: %w", err)
	}

	return team, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]domain.Account, error) {
	return listTeamMembers(ctx, r.db, teamID)
}

func (r *TeamRepository) ListWithMinMembers(ctx context.Context, minMembers int) ([]domain.Team, error) {
	const query = `
SELECT ` + teamColumns + `, COUNT(a.id)
FROM teams t
JOIN accounts a ON a.team_id = t.id
GROUP BY t.id
HAVING COUNT(a.id) >= $1
ORDER BY t.created_at`

	rows, err := r.db.QueryContext(ctx, query, minMembers)
	if err != nil {
		logger.Error("team repository list failed", err, logger.Fields{
			"minMembers": minMembers,
		})
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	return teams, nil
}

// AdjustOwner locks the team owner's row, hands the owner and the current
// members to adjust, and writes the owner's balance checkpoint and mining rate
// back when they changed.
func (r *TeamRepository) AdjustOwner(ctx context.Context, teamID string, adjust repo_interfaces.OwnerAdjustment) (owner domain.Account, changed bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("begin team owner transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ownerID sql.NullString
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, false, domain.ErrTeamNotFound
		}
		return domain.Account{}, false, fmt.Errorf("get team owner: %w", err)
	}
	if !ownerID.Valid {
		return domain.Account{}, false, domain.ErrTeamWithoutOwner
	}

	owner, err = lockAccount(ctx, tx, ownerID.String)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, false, domain.ErrTeamWithoutOwner
		}
		return domain.Account{}, false, fmt.Errorf("lock team owner: %w", err)
	}

	members, err := listTeamMembers(ctx, tx, teamID)
	if err != nil {
		return domain.Account{}, false, err
	}

	next, changed, err := adjust(owner, members)
	if err != nil {
		return domain.Account{}, false, err
	}

	if changed {
		const query = `UPDATE accounts SET base_balance = $2, mining_rate = $3, last_balance_update = $4, updated_at = NOW() WHERE id = $1`
		if _, err = tx.ExecContext(ctx, query, next.ID, next.BaseBalance, next.MiningRate, next.LastBalanceUpdate); err != nil {
			logger.Error("team repository update owner rate failed", err, logger.Fields{
				"teamId":  teamID,
				"ownerId": next.ID,
			})
			return domain.Account{}, false, fmt.Errorf("update owner mining rate: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Account{}, false, fmt.Errorf("commit team owner transaction: %w", err)
	}

	return next, changed, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listTeamMembers(ctx context.Context, q queryer, teamID string) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE team_id = $1 ORDER BY created_at`

	rows, err := q.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.Account, 0)
	for rows.Next() {
		member, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}

	return members, nil
}
