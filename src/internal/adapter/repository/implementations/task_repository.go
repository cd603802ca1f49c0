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

const taskColumns = `t.id, t.title, t.description, t.reward, t.due_date, t.is_active, t.action_type, t.action_data, t.verification_code_hash, t.created_at, t.updated_at`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row rowScanner, extra ...any) (domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		actionData  sql.NullString
		codeHash    sql.NullString
	)

	dest := []any{
		&task.ID,
		&task.Title,
		&description,
		&task.Reward,
		&task.DueDate,
		&task.IsActive,
		&task.ActionType,
		&actionData,
		&codeHash,
		&task.CreatedAt,
		&task.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Task{}, err
	}

	task.Description = nullStringPtr(description)
	task.ActionData = nullStringPtr(actionData)
	task.VerificationCodeHash = nullStringPtr(codeHash)

	return task, nil
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	logger.Info("task repository create", logger.Fields{
		"title":      task.Title,
		"actionType": task.ActionType,
	})

	const query = `
INSERT INTO tasks AS t (
	title,
	description,
	reward,
	due_date,
	is_active,
	action_type,
	action_data,
	verification_code_hash
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + taskColumns

	created, err := scanTask(r.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Reward,
		task.DueDate,
		task.IsActive,
		string(task.ActionType),
		task.ActionData,
		task.VerificationCodeHash,
	))
	if err != nil {
		logger.Error("task repository create failed", err, logger.Fields{
			"title": task.Title,
		})
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	logger.Info("task repository create success", logger.Fields{
		"taskId": created.ID,
	})

	return created, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (domain.Task, error) {
	task, err := getTask(ctx, r.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, commons.ErrRecordNotFound
		}
		logger.Error("task repository get failed", err, logger.Fields{
			"taskId": id,
		})
		return domain.Task{}, fmt.Errorf("get task by id: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) ListActiveForAccount(ctx context.Context, accountID string) ([]domain.AccountTask, error) {
	const query = `
SELECT ` + taskColumns + `, (c.id IS NOT NULL)
FROM tasks t
LEFT JOIN task_completions c ON c.task_id = t.id AND c.account_id = $1
WHERE t.is_active = TRUE
ORDER BY t.due_date`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("task repository list failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.AccountTask, 0)
	for rows.Next() {
		var completed bool
		task, err := scanTask(rows, &completed)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, domain.AccountTask{Task: task, IsCompleted: completed})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// Complete records the completion and persists the account state returned by
// complete in one transaction, with the account row locked throughout.
func (r *TaskRepository) Complete(ctx context.Context, accountID string, taskID string, complete repo_interfaces.TaskCompletionFunc) (updated domain.Account, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("begin task completion transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	account, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("lock account: %w", err)
	}

	task, err := getTask(ctx, tx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get task by id: %w", err)
	}

	var completions int
	const countQuery = `SELECT COUNT(1) FROM task_completions WHERE account_id = $1 AND task_id = $2`
	if err = tx.QueryRowContext(ctx, countQuery, accountID, taskID).Scan(&completions); err != nil {
		return domain.Account{}, fmt.Errorf("check task completion: %w", err)
	}
	if completions > 0 {
		return domain.Account{}, domain.ErrTaskAlreadyCompleted
	}

	next, err := complete(task, account)
	if err != nil {
		return domain.Account{}, err
	}

	const insertQuery = `INSERT INTO task_completions (account_id, task_id, completed_at) VALUES ($1, $2, NOW())`
	if _, err = tx.ExecContext(ctx, insertQuery, accountID, taskID); err != nil {
		logger.Error("task repository record completion failed", err, logger.Fields{
			"accountId": accountID,
			"taskId":    taskID,
		})
		return domain.Account{}, fmt.Errorf("record task completion: %w", err)
	}

	updated, err = updateAccountState(ctx, tx, next)
	if err != nil {
		return domain.Account{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Account{}, fmt.Errorf("commit task completion transaction: %w", err)
	}

	logger.Info("task repository complete success", logger.Fields{
		"accountId": accountID,
		"taskId":    taskID,
	})

	return updated, nil
}

func getTask(ctx context.Context, q queryRower, id string) (domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`

	return scanTask(q.QueryRowContext(ctx, query, id))
}
