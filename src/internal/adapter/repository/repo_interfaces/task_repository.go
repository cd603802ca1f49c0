package repo_interfaces

import (
	"context"

	"github.com/kook-app/mining-service/src/internal/domain"
)

// TaskCompletionFunc validates the task for the locked account and returns
// the account state to persist alongside the completion record.
type TaskCompletionFunc func(task domain.Task, account domain.Account) (domain.Account, error)

type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	ListActiveForAccount(ctx context.Context, accountID string) ([]domain.AccountTask, error)
	Complete(ctx context.Context, accountID string, taskID string, complete TaskCompletionFunc) (domain.Account, error)
}
