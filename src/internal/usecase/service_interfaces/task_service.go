package service_interfaces

import (
	"context"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/commons"
)

type TaskService interface {
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (commons.Response[models.TaskResponse], error)
	ListTasks(ctx context.Context, accountID string) (commons.Response[[]models.TaskResponse], error)
	CompleteTask(ctx context.Context, accountID string, taskID string) (commons.Response[models.CompleteTaskResponse], error)
	VerifyTask(ctx context.Context, accountID string, taskID string, req models.VerifyTaskRequest) (commons.Response[models.CompleteTaskResponse], error)
}
