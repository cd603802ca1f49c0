package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
)

type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Create(_ context.Context, task domain.Task) (domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	task = cloneTask(task)
	task.ID = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.store.tasks[task.ID] = task

	return cloneTask(task), nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	task, ok := r.store.tasks[id]
	if !ok {
		return domain.Task{}, commons.ErrRecordNotFound
	}
	return cloneTask(task), nil
}

func (r *TaskRepository) ListActiveForAccount(_ context.Context, accountID string) ([]domain.AccountTask, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	completed := r.store.completions[accountID]
	tasks := make([]domain.AccountTask, 0)
	for _, task := range r.store.tasks {
		if !task.IsActive {
			continue
		}
		_, done := completed[task.ID]
		tasks = append(tasks, domain.AccountTask{Task: cloneTask(task), IsCompleted: done})
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})

	return tasks, nil
}

func (r *TaskRepository) Complete(_ context.Context, accountID string, taskID string, complete repo_interfaces.TaskCompletionFunc) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, ok := r.store.accounts[accountID]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	task, ok := r.store.tasks[taskID]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	if _, done := r.store.completions[accountID][taskID]; done {
		return domain.Account{}, domain.ErrTaskAlreadyCompleted
	}

	next, err := complete(cloneTask(task), cloneAccount(account))
	if err != nil {
		return domain.Account{}, err
	}

	now := r.store.now()
	if r.store.completions[accountID] == nil {
		r.store.completions[accountID] = make(map[string]time.Time)
	}
	r.store.completions[accountID][taskID] = now

	next.ID = account.ID
	next.CreatedAt = account.CreatedAt
	next.UpdatedAt = now
	r.store.accounts[accountID] = cloneAccount(next)

	return cloneAccount(next), nil
}
