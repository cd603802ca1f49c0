package models

import (
	"errors"
	"strings"
)

type CreateTeamRequest struct {
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

func (r CreateTeamRequest) Validate() error {
	var errs []string

	name := strings.TrimSpace(r.Name)
	if name == "" {
		errs = append(errs, "name is required")
	} else if len(name) > 120 {
		errs = append(errs, "name must be at most 120 characters")
	}
	if strings.TrimSpace(r.OwnerID) == "" {
		errs = append(errs, "ownerId is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type JoinTeamRequest struct {
	AccountID string `json:"accountId"`
}

func (r JoinTeamRequest) Validate() error {
	if strings.TrimSpace(r.AccountID) == "" {
		return errors.New("accountId is required")
	}
	return nil
}

type TeamResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerID     string `json:"ownerId"`
	MemberCount int    `json:"memberCount"`
	TeamBonus   string `json:"teamBonus"`
	CreatedAt   string `json:"createdAt"`
}

type TeamMemberResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	IsOwner    bool    `json:"isOwner"`
	IsActive   bool    `json:"isActive"`
	MiningRate string  `json:"miningRate"`
	JoinedAt   string  `json:"joinedAt"`
	LastActive *string `json:"lastActive"`
}
