package repository

import (
	"context"
	"fmt"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/implementations"
	"github.com/kook-app/mining-service/src/internal/adapter/repository/memory"
	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/config"
	"github.com/kook-app/mining-service/src/internal/logger"
)

// Repositories is the storage backend selected by configuration.
type Repositories struct {
	Accounts repo_interfaces.AccountRepository
	Teams    repo_interfaces.TeamRepository
	Tasks    repo_interfaces.TaskRepository

	close func() error
}

func (r Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open connects to the configured storage driver. For PostgreSQL it applies
// pending migrations before returning when migrate is true.
func Open(ctx context.Context, cfg config.Config, migrate bool) (Repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; data is lost on restart", nil)
		store := memory.NewStore(nil)
		return Repositories{
			Accounts: memory.NewAccountRepository(store),
			Teams:    memory.NewTeamRepository(store),
			Tasks:    memory.NewTaskRepository(store),
		}, nil
	}

	db, err := implementations.Open(ctx, cfg.DatabaseDSN, cfg.TeamActivityWorkers)
	if err != nil {
		return Repositories{}, err
	}

	if migrate {
		applied, err := implementations.RunMigrations(ctx, db, cfg.MigrationsDir)
		if err != nil {
			_ = db.Close()
			return Repositories{}, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations completed", logger.Fields{
			"applied": applied,
			"dir":     cfg.MigrationsDir,
		})
	}

	return Repositories{
		Accounts: implementations.NewAccountRepository(db),
		Teams:    implementations.NewTeamRepository(db),
		Tasks:    implementations.NewTaskRepository(db),
		close:    db.Close,
	}, nil
}
