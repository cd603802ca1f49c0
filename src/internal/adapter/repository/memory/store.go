// Package memory keeps accounts, teams and tasks in process memory. It backs
// the service when STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"sync"
	"time"

	"github.com/kook-app/mining-service/src/internal/domain"
)

// Store is shared by the memory repositories. A single mutex serializes every
// mutation, which gives the same per-account atomicity as a row lock.
type Store struct {
	mu          sync.Mutex
	now         func() time.Time
	accounts    map[string]domain.Account
	teams       map[string]domain.Team
	tasks       map[string]domain.Task
	completions map[string]map[string]time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:         now,
		accounts:    make(map[string]domain.Account),
		teams:       make(map[string]domain.Team),
		tasks:       make(map[string]domain.Task),
		completions: make(map[string]map[string]time.Time),
	}
}

func (s *Store) teamSize(teamID *string) int {
	if teamID == nil {
		return 0
	}
	size := 0
	for _, account := range s.accounts {
		if account.InTeam(*teamID) {
			size++
		}
	}
	return size
}

func (s *Store) members(teamID string) []domain.Account {
	members := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.InTeam(teamID) {
			members = append(members, cloneAccount(account))
		}
	}
	sortAccounts(members)
	return members
}

func cloneAccount(account domain.Account) domain.Account {
	account.TeamID = cloneString(account.TeamID)
	account.LastBalanceUpdate = cloneTime(account.LastBalanceUpdate)
	account.MiningSessionStart = cloneTime(account.MiningSessionStart)
	account.MiningSessionEnd = cloneTime(account.MiningSessionEnd)
	return account
}

func cloneTask(task domain.Task) domain.Task {
	task.Description = cloneString(task.Description)
	task.ActionData = cloneString(task.ActionData)
	task.VerificationCodeHash = cloneString(task.VerificationCodeHash)
	return task
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
