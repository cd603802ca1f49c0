package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TaskActionType string

const (
	TaskActionURL    TaskActionType = "url"
	TaskActionVideo  TaskActionType = "video"
	TaskActionInApp  TaskActionType = "in_app"
	TaskActionSimple TaskActionType = "simple"
)

func (t TaskActionType) Valid() bool {
	switch t {
	case TaskActionURL, TaskActionVideo, TaskActionInApp, TaskActionSimple:
		return true
	default:
		return false
	}
}

type Task struct {
	ID                   string
	Title                string
	Description          *string
	Reward               decimal.Decimal
	DueDate              time.Time
	IsActive             bool
	ActionType           TaskActionType
	ActionData           *string
	VerificationCodeHash *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AccountTask is a task as seen by one account.
type AccountTask struct {
	Task
	IsCompleted bool
}

type TaskCompletion struct {
	ID          string
	AccountID   string
	TaskID      string
	CompletedAt time.Time
}
