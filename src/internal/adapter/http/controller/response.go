package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kook-app/mining-service/src/internal/commons"
	"github.com/kook-app/mining-service/src/internal/domain"
	"github.com/kook-app/mining-service/src/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commons.ErrValidation),
		errors.Is(err, domain.ErrSessionInProgress),
		errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, domain.ErrInvalidTimestamp),
		errors.Is(err, domain.ErrTaskRequiresVerification),
		errors.Is(err, domain.ErrInvalidVerificationCode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFinished):
		return http.StatusForbidden
	case errors.Is(err, commons.ErrRecordNotFound),
		errors.Is(err, domain.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAlreadyInTeam),
		errors.Is(err, domain.ErrTaskAlreadyCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respond writes the service response, picking the status from err.
func respond[T any](w http.ResponseWriter, r *http.Request, successStatus int, response commons.Response[T], err error, start time.Time) {
	status := successStatus
	if err != nil {
		status = statusFor(err)
		logError(r, err, logger.Fields{"message": response.Message, "status": status})
	}

	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request, dst *T, start time.Time) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[T]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, *dst)
	return true
}
