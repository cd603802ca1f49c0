package models

import (
	"errors"
	"net/mail"
	"strings"
)

type CreateAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	name := strings.TrimSpace(r.Name)
	if name == "" {
		errs = append(errs, "name is required")
	} else if len(name) > 120 {
		errs = append(errs, "name must be at most 120 characters")
	}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, "email must be a valid address")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type AccountResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	TeamID            *string `json:"teamId,omitempty"`
	Balance           string  `json:"balance"`
	BaseBalance       string  `json:"baseBalance"`
	MiningRate        string  `json:"miningRate"`
	MiningStatus      string  `json:"miningStatus"`
	LastBalanceUpdate *string `json:"lastBalanceUpdate,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}
