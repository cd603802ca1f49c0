package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/metrics"
	"github.com/kook-app/mining-service/src/internal/mining"
	"github.com/kook-app/mining-service/src/internal/usecase/service_interfaces"
)

// TeamActivityService lowers team owners' mining rates for idle teammates.
type TeamActivityService struct {
	teamRepo repo_interfaces.TeamRepository
	workers  int
	now      func() time.Time
}

func NewTeamActivityService(teamRepo repo_interfaces.TeamRepository, workers int, now func() time.Time) *TeamActivityService {
	if workers < 1 {
		workers = 1
	}
	if now == nil {
		now = time.Now
	}
	return &TeamActivityService{
		teamRepo: teamRepo,
		workers:  workers,
		now:      now,
	}
}

// Run evaluates every team with at least two members. Teams are processed
// concurrently; each owner update happens under that owner's row lock. Teams
// without an owner are skipped, and the first storage error stops the run.
func (s *TeamActivityService) Run(ctx context.Context) (service_interfaces.TeamActivityReport, error) {
	start := time.Now()
	now := s.now()

	logger.Info("team activity check started", logger.Fields{
		"workers": s.workers,
	})

	teams, err := s.teamRepo.ListWithMinMembers(ctx, mining.MinDecayTeamSize)
	if err != nil {
		metrics.RecordDecayRun(time.Since(start), 0, false)
		logger.Error("team activity list teams failed", err, nil)
		return service_interfaces.TeamActivityReport{}, fmt.Errorf("list teams for activity check: %w", err)
	}

	var decayed, skipped atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for _, team := range teams {
		team := team
		group.Go(func() error {
			var result mining.DecayResult
			_, changed, err := s.teamRepo.AdjustOwner(groupCtx, team.ID, func(owner domain.Account, members []domain.Account) (domain.Account, bool, error) {
				updated, decay := mining.ApplyTeamDecay(owner, members, now)
				result = decay
				if !decay.Applied() {
					return owner, false, nil
				}

				// Hours accrued so far keep the rate they were earned at.
				owner, _ = mining.EnsureInitialized(owner)
				checkpointed, _, err := mining.Checkpoint(owner, len(members), now)
				if err != nil {
					return domain.Account{}, false, err
				}
				checkpointed.MiningRate = updated.MiningRate
				return checkpointed, true, nil
			})
			if err != nil {
				if errors.Is(err, domain.ErrTeamWithoutOwner) || errors.Is(err, domain.ErrTeamNotFound) {
					skipped.Add(1)
					logger.Warn("team activity team skipped", logger.Fields{
						"teamId": team.ID,
						"reason": err.Error(),
					})
					return nil
				}
				return fmt.Errorf("adjust owner of team %s: %w", team.ID, err)
			}

			if changed {
				decayed.Add(1)
				logger.Info("team owner mining rate decreased", logger.Fields{
					"teamId":          team.ID,
					"ownerId":         team.OwnerID,
					"inactiveMembers": result.InactiveMembers,
					"decrease":        result.Decrease.String(),
					"previousRate":    result.PreviousRate.String(),
					"newRate":         result.NewRate.String(),
				})
			}
			return nil
		})
	}

	err = group.Wait()
	report := service_interfaces.TeamActivityReport{
		TeamsChecked:  len(teams),
		OwnersDecayed: int(decayed.Load()),
		Skipped:       int(skipped.Load()),
	}
	metrics.RecordDecayRun(time.Since(start), report.OwnersDecayed, err == nil)

	if err != nil {
		logger.Error("team activity check failed", err, logger.Fields{
			"teamsChecked":  report.TeamsChecked,
			"ownersDecayed": report.OwnersDecayed,
		})
		return report, err
	}

	logger.Info("team activity check completed", logger.Fields{
		"teamsChecked":  report.TeamsChecked,
		"ownersDecayed": report.OwnersDecayed,
		"skipped":       report.Skipped,
		"durationMs":    time.Since(start).Milliseconds(),
	})

	return report, nil
}
