package implementations

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kook-app/mining-service/src/internal/domain"
)

var taskColumnNames = []string{
	"id", "title", "description", "reward", "due_date", "is_active", "action_type",
	"action_data", "verification_code_hash", "created_at", "updated_at",
}

func taskRow(rows *sqlmock.Rows, id string, actionType domain.TaskActionType, extra ...any) *sqlmock.Rows {
	values := []driver.Value{id, "Follow us", nil, "5", fixedNow, true, string(actionType), "https://example.com", nil, fixedNow, fixedNow}
	for _, v := range extra {
		values = append(values, v)
	}
	return rows.AddRow(values...)
}

func TestTaskRepositoryListActiveForAccountFlagsCompletion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows(append(append([]string{}, taskColumnNames...), "is_completed"))
	taskRow(rows, "task-1", domain.TaskActionURL, true)
	taskRow(rows, "task-2", domain.TaskActionSimple, false)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN task_completions")).
		WithArgs("acc-1").
		WillReturnRows(rows)

	tasks, err := repo.ListActiveForAccount(context.Background(), "acc-1")
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].IsCompleted)
	assert.False(t, tasks[1].IsCompleted)
	assert.Equal(t, domain.TaskActionSimple, tasks[1].ActionType)
	require.NotNil(t, tasks[0].ActionData)
	assert.Nil(t, tasks[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryCompleteCreditsAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("acc-1").
		WillReturnRows(accountRows("acc-1", nil, "1", domain.MiningStatusIdle))
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks t WHERE t.id = $1")).
		WithArgs("task-1").
		WillReturnRows(taskRow(sqlmock.NewRows(taskColumnNames), "task-1", domain.TaskActionSimple))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM task_completions")).
		WithArgs("acc-1", "task-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO task_completions")).
		WithArgs("acc-1", "task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts")).
		WillReturnRows(accountRows("acc-1", nil, "6", domain.MiningStatusIdle))
	mock.ExpectCommit()

	updated, err := repo.Complete(context.Background(), "acc-1", "task-1", func(task domain.Task, account domain.Account) (domain.Account, error) {
		account.BaseBalance = account.BaseBalance.Add(task.Reward)
		return account, nil
	})
	require.NoError(t, err)

	assert.True(t, updated.BaseBalance.Equal(decimal.NewFromInt(6)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryCompleteRejectsRepeat(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(accountRows("acc-1", nil, "1", domain.MiningStatusIdle))
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks t WHERE t.id = $1")).
		WillReturnRows(taskRow(sqlmock.NewRows(taskColumnNames), "task-1", domain.TaskActionSimple))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM task_completions")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Complete(context.Background(), "acc-1", "task-1", func(task domain.Task, account domain.Account) (domain.Account, error) {
		t.Fatal("completion must not run twice")
		return account, nil
	})

	assert.ErrorIs(t, err, domain.ErrTaskAlreadyCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
