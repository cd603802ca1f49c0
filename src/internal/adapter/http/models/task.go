package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kook-app/mining-service/src/internal/domain"
)

type CreateTaskRequest struct {
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	Reward           string  `json:"reward"`
	DueDate          string  `json:"dueDate"`
	ActionType       string  `json:"actionType,omitempty"`
	ActionData       *string `json:"actionData,omitempty"`
	VerificationCode *string `json:"verificationCode,omitempty"`
}

func (r CreateTaskRequest) Validate() error {
	var errs []string

	title := strings.TrimSpace(r.Title)
	if title == "" {
		errs = append(errs, "title is required")
	} else if len(title) > 255 {
		errs = append(errs, "title must be at most 255 characters")
	}

	reward := strings.TrimSpace(r.Reward)
	if reward == "" {
		errs = append(errs, "reward is required")
	} else {
		parsed, err := decimal.NewFromString(reward)
		if err != nil {
			errs = append(errs, "reward must be numeric")
		} else if parsed.LessThanOrEqual(decimal.Zero) {
			errs = append(errs, "reward must be greater than zero")
		}
	}

	if strings.TrimSpace(r.DueDate) == "" {
		errs = append(errs, "dueDate is required")
	} else if _, err := time.Parse(time.RFC3339, strings.TrimSpace(r.DueDate)); err != nil {
		errs = append(errs, "dueDate must be an RFC3339 timestamp")
	}

	if actionType := strings.TrimSpace(r.ActionType); actionType != "" && !domain.TaskActionType(actionType).Valid() {
		errs = append(errs, "actionType must be one of url, video, in_app, simple")
	}

	if r.VerificationCode != nil && strings.TrimSpace(*r.VerificationCode) == "" {
		errs = append(errs, "verificationCode cannot be blank")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type VerifyTaskRequest struct {
	VerificationCode string `json:"verificationCode"`
}

func (r VerifyTaskRequest) Validate() error {
	if strings.TrimSpace(r.VerificationCode) == "" {
		return errors.New("verificationCode is required")
	}
	return nil
}

type TaskResponse struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Description          *string `json:"description,omitempty"`
	Reward               string  `json:"reward"`
	DueDate              string  `json:"dueDate"`
	ActionType           string  `json:"actionType"`
	ActionData           *string `json:"actionData,omitempty"`
	RequiresVerification bool    `json:"requiresVerification"`
	IsCompleted          bool    `json:"isCompleted"`
}

type CompleteTaskResponse struct {
	TaskID     string `json:"taskId"`
	Reward     string `json:"reward"`
	NewBalance string `json:"newBalance"`
}
