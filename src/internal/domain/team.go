package domain

import "time"

type Team struct {
	ID          string
	Name        string
	OwnerID     string
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
