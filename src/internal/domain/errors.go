package domain

import "errors"

var (
	ErrSessionInProgress  = errors.New("Cannot start mining. An active session is in progress.")
	ErrNoActiveSession    = errors.New("No active mining session to complete.")
	ErrInvalidTimestamp   = errors.New("timestamp precedes last balance update")
	ErrSessionNotFinished = errors.New("Mining sessions cannot be stopped early. Mining will continue for the full 24-hour period.")

	ErrEmailTaken               = errors.New("An account with this email already exists")
	ErrTeamNotFound             = errors.New("Team not found")
	ErrAlreadyInTeam            = errors.New("Account already belongs to a team")
	ErrTeamWithoutOwner         = errors.New("Team has no owner")
	ErrTaskAlreadyCompleted     = errors.New("Task already completed.")
	ErrTaskRequiresVerification = errors.New("This task requires verification.")
	ErrInvalidVerificationCode  = errors.New("Invalid verification code or task not found.")
)
