package repo_interfaces

import (
	"context"
	"time"

	"github.com/kook-app/mining-service/src/internal/domain"
)

// AccountMutation receives the locked account and its current team size and
// returns the state to persist. Returning an error aborts without writing.
type AccountMutation func(account domain.Account, teamSize int) (domain.Account, error)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	Mutate(ctx context.Context, id string, mutate AccountMutation) (domain.Account, error)
	// Totals counts miners whose session is still running at now. Accounts
	// created within the day before now are reported as new.
	Totals(ctx context.Context, now time.Time) (domain.NetworkTotals, error)
}
