package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
)

type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return domain.Account{}, domain.ErrEmailTaken
		}
	}

	account = cloneAccount(account)
	account.ID = uuid.NewString()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = r.store.now()
	}
	account.UpdatedAt = account.CreatedAt
	r.store.accounts[account.ID] = account

	return cloneAccount(account), nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return cloneAccount(account), nil
}

func (r *AccountRepository) Mutate(_ context.Context, id string, mutate repo_interfaces.AccountMutation) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	next, err := mutate(cloneAccount(current), r.store.teamSize(current.TeamID))
	if err != nil {
		return domain.Account{}, err
	}
	if next.SameState(current) {
		return cloneAccount(current), nil
	}

	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.store.now()
	r.store.accounts[id] = cloneAccount(next)

	return cloneAccount(next), nil
}

func (r *AccountRepository) Totals(_ context.Context, now time.Time) (domain.NetworkTotals, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	totals := domain.NetworkTotals{
		ActiveMiningRate: decimal.Zero,
		TotalSupply:      decimal.Zero,
	}
	newSince := now.Add(-24 * time.Hour)
	for _, account := range r.store.accounts {
		totals.TotalSupply = totals.TotalSupply.Add(account.BaseBalance)
		if !account.IsMining() || account.MiningSessionEnd == nil || !account.MiningSessionEnd.After(now) {
			continue
		}
		totals.ActiveMiners++
		totals.ActiveMiningRate = totals.ActiveMiningRate.Add(account.MiningRate)
		if !account.CreatedAt.Before(newSince) {
			totals.NewActiveMiners++
		}
	}

	return totals, nil
}

func sortAccounts(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
}
