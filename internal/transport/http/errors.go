package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/namdoan/escrowd/internal/core/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}

// writeDomainError maps ledger sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, domain.ErrUnknownEvent):
		status, code = http.StatusNotFound, "unknown_event"
	case errors.Is(err, domain.ErrInvalidIdentity):
		status, code = http.StatusBadRequest, "invalid_identity"
	case errors.Is(err, domain.ErrIncorrectDeposit):
		status, code = http.StatusBadRequest, "incorrect_deposit"
	case errors.Is(err, domain.ErrNotAuthorized):
		status, code = http.StatusForbidden, "not_authorized"
	case errors.Is(err, domain.ErrDuplicateEvent):
		status, code = http.StatusConflict, "duplicate_event"
	case errors.Is(err, domain.ErrEventAlreadyOccurred):
		status, code = http.StatusConflict, "event_already_occurred"
	case errors.Is(err, domain.ErrEventFull):
		status, code = http.StatusConflict, "event_full"
	case errors.Is(err, domain.ErrDuplicateReservation):
		status, code = http.StatusConflict, "duplicate_reservation"
	case errors.Is(err, domain.ErrNoSuchReservation):
		status, code = http.StatusConflict, "no_such_reservation"
	case errors.Is(err, domain.ErrAlreadyClaimed):
		status, code = http.StatusConflict, "already_claimed"
	case errors.Is(err, domain.ErrEventAlreadySettled):
		status, code = http.StatusConflict, "event_already_settled"
	case errors.Is(err, domain.ErrAlreadySettled):
		status, code = http.StatusConflict, "already_settled"
	case errors.Is(err, domain.ErrTooEarly):
		status, code = http.StatusConflict, "too_early"
	case errors.Is(err, domain.ErrTransferFailed):
		status, code = http.StatusBadGateway, "transfer_failed"
	}

	writeError(w, status, code, err.Error())
}
