package service_interfaces

import (
	"context"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/commons"
)

type MiningService interface {
	GetStatus(ctx context.Context, accountID string) (commons.Response[models.MiningStatusResponse], error)
	GetStatistics(ctx context.Context, accountID string) (commons.Response[models.MiningStatisticsResponse], error)
	GetRealTimeBalance(ctx context.Context, accountID string) (commons.Response[models.RealTimeBalanceResponse], error)
	StartMining(ctx context.Context, accountID string) (commons.Response[models.StartMiningResponse], error)
	CompleteMining(ctx context.Context, accountID string) (commons.Response[models.CompleteMiningResponse], error)
	GetNetworkStats(ctx context.Context) (commons.Response[models.NetworkStatsResponse], error)
}
