package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
	"github.com/kook-app/mining-service/src/internal/metrics"
	"github.com/kook-app/mining-service/src/internal/mining"
)

type TaskService struct {
	taskRepo    repo_interfaces.TaskRepository
	accountRepo repo_interfaces.AccountRepository
	hashCost    int
}

// NewTaskService builds the task service. hashCost is the bcrypt cost used for
// verification codes; values outside bcrypt's range fall back to the default.
func NewTaskService(taskRepo repo_interfaces.TaskRepository, accountRepo repo_interfaces.AccountRepository, hashCost int) *TaskService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &TaskService{
		taskRepo:    taskRepo,
		accountRepo: accountRepo,
		hashCost:    hashCost,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, req models.CreateTaskRequest) (commons.Response[models.TaskResponse], error) {
	logger.Info("task service create task request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TaskResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrValidation, err)
	}

	reward, _ := decimal.NewFromString(strings.TrimSpace(req.Reward))
	dueDate, _ := time.Parse(time.RFC3339, strings.TrimSpace(req.DueDate))

	actionType := domain.TaskActionType(strings.TrimSpace(req.ActionType))
	if actionType == "" {
		actionType = domain.TaskActionSimple
	}

	task := domain.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Reward:      reward,
		DueDate:     dueDate.UTC(),
		IsActive:    true,
		ActionType:  actionType,
		ActionData:  req.ActionData,
	}

	if req.VerificationCode != nil {
		hash, err := s.hashVerificationCode(strings.TrimSpace(*req.VerificationCode))
		if err != nil {
			logger.Error("task service hash verification code failed", err, nil)
			return commons.ErrorResponse[models.TaskResponse]("failed to create task", "Unable to create task right now"), err
		}
		task.VerificationCodeHash = &hash
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		logger.Error("task service create task persist failed", err, logger.Fields{
			"title": task.Title,
		})
		return commons.ErrorResponse[models.TaskResponse]("failed to create task", "Unable to create task right now"), err
	}

	logger.Info("task service create task success", logger.Fields{
		"taskId": created.ID,
	})

	return commons.SuccessResponse("task created successfully", toTaskResponse(domain.AccountTask{Task: created})), nil
}

func (s *TaskService) ListTasks(ctx context.Context, accountID string) (commons.Response[[]models.TaskResponse], error) {
	accountID = strings.TrimSpace(accountID)

	if err := requireID(accountID, commons.ErrRecordNotFound); err != nil {
		return commons.ErrorResponse[[]models.TaskResponse]("Account not found"), err
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.TaskResponse]("Account not found"), err
		}
		logger.Error("task service get account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[[]models.TaskResponse]("failed to fetch tasks", "Unable to fetch tasks right now"), err
	}

	tasks, err := s.taskRepo.ListActiveForAccount(ctx, accountID)
	if err != nil {
		logger.Error("task service list tasks failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[[]models.TaskResponse]("failed to fetch tasks", "Unable to fetch tasks right now"), err
	}

	response := make([]models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	return commons.SuccessResponse("tasks fetched successfully", response), nil
}

// CompleteTask credits the reward of a task that needs no verification code.
func (s *TaskService) CompleteTask(ctx context.Context, accountID string, taskID string) (commons.Response[models.CompleteTaskResponse], error) {
	return s.complete(ctx, strings.TrimSpace(accountID), strings.TrimSpace(taskID), func(task domain.Task) error {
		if task.ActionType != domain.TaskActionSimple || task.VerificationCodeHash != nil {
			return domain.ErrTaskRequiresVerification
		}
		return nil
	})
}

// VerifyTask credits the reward once the supplied code matches the stored hash.
func (s *TaskService) VerifyTask(ctx context.Context, accountID string, taskID string, req models.VerifyTaskRequest) (commons.Response[models.CompleteTaskResponse], error) {
	logger.Info("task service verify task request", logger.Fields{
		"accountId": accountID,
		"taskId":    taskID,
		"payload":   logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CompleteTaskResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrValidation, err)
	}

	code := strings.TrimSpace(req.VerificationCode)
	return s.complete(ctx, strings.TrimSpace(accountID), strings.TrimSpace(taskID), func(task domain.Task) error {
		if task.VerificationCodeHash == nil {
			return domain.ErrInvalidVerificationCode
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*task.VerificationCodeHash), []byte(code)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return domain.ErrInvalidVerificationCode
			}
			return fmt.Errorf("verify task code: %w", err)
		}
		return nil
	})
}

func (s *TaskService) complete(ctx context.Context, accountID string, taskID string, check func(task domain.Task) error) (commons.Response[models.CompleteTaskResponse], error) {
	if err := requireID(accountID, commons.ErrRecordNotFound); err != nil {
		return taskFailure(accountID, taskID, err)
	}
	if err := requireID(taskID, commons.ErrRecordNotFound); err != nil {
		return taskFailure(accountID, taskID, err)
	}

	var credited domain.Task
	account, err := s.taskRepo.Complete(ctx, accountID, taskID, func(task domain.Task, account domain.Account) (domain.Account, error) {
		if !task.IsActive {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		if err := check(task); err != nil {
			return domain.Account{}, err
		}

		account, _ = mining.EnsureInitialized(account)
		credited = task
		return mining.CreditReward(account, task.Reward)
	})
	if err != nil {
		return taskFailure(accountID, taskID, err)
	}

	metrics.RecordTaskCompleted(string(credited.ActionType))
	logger.Info("task service task reward credited", logger.Fields{
		"accountId": accountID,
		"taskId":    taskID,
		"reward":    credited.Reward.String(),
	})

	response := models.CompleteTaskResponse{
		TaskID:     taskID,
		Reward:     commons.Amount(credited.Reward),
		NewBalance: commons.Amount(account.BaseBalance),
	}

	return commons.SuccessResponse("Task completed successfully", response), nil
}

func (s *TaskService) hashVerificationCode(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash verification code: %w", err)
	}

	return string(hashed), nil
}

func taskFailure(accountID string, taskID string, err error) (commons.Response[models.CompleteTaskResponse], error) {
	switch {
	case errors.Is(err, domain.ErrTaskAlreadyCompleted),
		errors.Is(err, domain.ErrTaskRequiresVerification),
		errors.Is(err, domain.ErrInvalidVerificationCode):
		logger.Info("task service completion rejected", logger.Fields{
			"accountId": accountID,
			"taskId":    taskID,
			"reason":    err.Error(),
		})
		return commons.ErrorResponse[models.CompleteTaskResponse](err.Error()), err
	case errors.Is(err, commons.ErrRecordNotFound):
		return commons.ErrorResponse[models.CompleteTaskResponse]("Task or account not found"), err
	}

	logger.Error("task service completion failed", err, logger.Fields{
		"accountId": accountID,
		"taskId":    taskID,
	})
	return commons.ErrorResponse[models.CompleteTaskResponse]("failed to complete task", "Unable to complete task right now"), err
}

func toTaskResponse(task domain.AccountTask) models.TaskResponse {
	return models.TaskResponse{
		ID:                   task.ID,
		Title:                task.Title,
		Description:          task.Description,
		Reward:               commons.Amount(task.Reward),
		DueDate:              task.DueDate.UTC().Format(time.RFC3339),
		ActionType:           string(task.ActionType),
		ActionData:           task.ActionData,
		RequiresVerification: task.VerificationCodeHash != nil,
		IsCompleted:          task.IsCompleted,
	}
}
