package service_interfaces

import (
	"context"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/commons"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
}
