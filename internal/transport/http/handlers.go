package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/ledger"
)

// callerHeader carries the caller identity for organizer-gated calls.
const callerHeader = "X-Caller"

type createRequest struct {
	Organizer     string `json:"organizer"`
	ScheduledAt   int64  `json:"scheduled_at"`
	DepositAmount uint64 `json:"deposit_amount"`
	Capacity      int    `json:"capacity"`
	MetadataRef   string `json:"metadata_ref"`
}

type createResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	id, err := s.svc.Create(r.Context(), ledger.CreateParams{
		Organizer:     domain.Identity(req.Organizer),
		ScheduledAt:   time.Unix(req.ScheduledAt, 0).UTC(),
		DepositAmount: req.DepositAmount,
		Capacity:      req.Capacity,
		MetadataRef:   req.MetadataRef,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: id.String()})
}

type eventResponse struct {
	ID            string   `json:"id"`
	MetadataRef   string   `json:"metadata_ref"`
	Organizer     string   `json:"organizer"`
	ScheduledAt   int64    `json:"scheduled_at"`
	DepositAmount uint64   `json:"deposit_amount"`
	Capacity      int      `json:"capacity"`
	Confirmed     []string `json:"confirmed"`
	Claimed       []string `json:"claimed"`
	EscrowHeld    uint64   `json:"escrow_held"`
	Settled       bool     `json:"settled"`
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}

	rec, err := s.svc.GetEvent(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !rec.Exists() {
		writeError(w, http.StatusNotFound, "unknown_event", domain.ErrUnknownEvent.Error())
		return
	}

	resp := eventResponse{
		ID:            rec.ID.String(),
		MetadataRef:   rec.MetadataRef,
		Organizer:     string(rec.Organizer),
		ScheduledAt:   rec.ScheduledAt.Unix(),
		DepositAmount: rec.DepositAmount,
		Capacity:      rec.Capacity,
		Confirmed:     identityList(rec.Confirmed),
		Claimed:       identityList(rec.Claimed),
		EscrowHeld:    rec.EscrowHeld,
		Settled:       rec.Settled,
	}
	writeJSON(w, http.StatusOK, resp)
}

type reserveRequest struct {
	Attendee   string `json:"attendee"`
	PaidAmount uint64 `json:"paid_amount"`
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	if err := s.svc.Reserve(r.Context(), id, domain.Identity(req.Attendee), req.PaidAmount); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkInRequest struct {
	Attendee string `json:"attendee"`
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	caller := domain.Identity(r.Header.Get(callerHeader))
	if err := s.svc.CheckIn(r.Context(), id, domain.Identity(req.Attendee), caller); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkInResult struct {
	Attendee       string `json:"attendee"`
	Refunded       bool   `json:"refunded"`
	AlreadyClaimed bool   `json:"already_claimed,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (s *Server) handleCheckInAll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}

	caller := domain.Identity(r.Header.Get(callerHeader))
	results, err := s.svc.CheckInAll(r.Context(), id, caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]checkInResult, 0, len(results))
	for _, res := range results {
		item := checkInResult{
			Attendee:       string(res.Attendee),
			Refunded:       res.Refunded,
			AlreadyClaimed: res.AlreadyClaimed,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

type settleResponse struct {
	Payout uint64 `json:"payout"`
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}

	caller := domain.Identity(r.Header.Get(callerHeader))
	payout, err := s.svc.SettleUnclaimed(r.Context(), id, caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settleResponse{Payout: payout})
}

func pathEventID(w http.ResponseWriter, r *http.Request) (domain.EventID, bool) {
	id, err := domain.ParseEventID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return domain.EventID{}, false
	}
	return id, true
}

func identityList(ids []domain.Identity) []string {
	out := make([]string, len(ids))
	for i, a := range ids {
		out[i] = string(a)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
