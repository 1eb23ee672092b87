package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/namdoan/escrowd/internal/core/clock"
	"github.com/namdoan/escrowd/internal/infra/storage/memory"
	"github.com/namdoan/escrowd/internal/infra/treasury"
	"github.com/namdoan/escrowd/internal/ledger"
)

var scheduledAt = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

type testAPI struct {
	srv   *httptest.Server
	book  *treasury.AccountBook
	clock *clock.Manual
	t     *testing.T
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	book := treasury.NewAccountBook()
	clk := clock.NewManual(scheduledAt.Add(-24 * time.Hour))
	svc := ledger.New(memory.NewStore(), book, nil, clk, "test-instance")
	server := NewServer(svc, 0, map[string]Pinger{"store": memory.NewStore()})

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, book: book, clock: clk, t: t}
}

func (a *testAPI) do(method, path, caller string, body any) (*http.Response, map[string]any) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	if err != nil {
		a.t.Fatalf("build request: %v", err)
	}
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}

	resp, err := a.srv.Client().Do(req)
	if err != nil {
		a.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *testAPI) createEvent(deposit uint64, capacity int) string {
	a.t.Helper()
	resp, body := a.do(http.MethodPost, "/v1/events", "", createRequest{
		Organizer:     "org-1",
		ScheduledAt:   scheduledAt.Unix(),
		DepositAmount: deposit,
		Capacity:      capacity,
		MetadataRef:   "ipfs://meta",
	})
	if resp.StatusCode != http.StatusCreated {
		a.t.Fatalf("create status = %d, want 201 (%v)", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if len(id) != 64 {
		a.t.Fatalf("id = %q, want 64 hex chars", id)
	}
	return id
}

func TestAPI_Lifecycle(t *testing.T) {
	api := newTestAPI(t)
	id := api.createEvent(100, 3)

	// Duplicate creation conflicts.
	resp, body := api.do(http.MethodPost, "/v1/events", "", createRequest{
		Organizer:     "org-1",
		ScheduledAt:   scheduledAt.Unix(),
		DepositAmount: 100,
		Capacity:      3,
	})
	if resp.StatusCode != http.StatusConflict || body["code"] != "duplicate_event" {
		t.Fatalf("duplicate create = %d %v, want 409 duplicate_event", resp.StatusCode, body)
	}

	// Reservations.
	for _, attendee := range []string{"alice", "bob"} {
		resp, body = api.do(http.MethodPost, "/v1/events/"+id+"/reservations", "",
			reserveRequest{Attendee: attendee, PaidAmount: 100})
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("reserve %s = %d %v, want 204", attendee, resp.StatusCode, body)
		}
	}
	resp, body = api.do(http.MethodPost, "/v1/events/"+id+"/reservations", "",
		reserveRequest{Attendee: "carol", PaidAmount: 5})
	if resp.StatusCode != http.StatusBadRequest || body["code"] != "incorrect_deposit" {
		t.Fatalf("wrong deposit = %d %v, want 400 incorrect_deposit", resp.StatusCode, body)
	}

	// Record view.
	resp, body = api.do(http.MethodGet, "/v1/events/"+id, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get event = %d, want 200", resp.StatusCode)
	}
	if body["escrow_held"] != float64(200) {
		t.Errorf("escrow_held = %v, want 200", body["escrow_held"])
	}

	// Check-in requires the organizer.
	resp, body = api.do(http.MethodPost, "/v1/events/"+id+"/checkins", "mallory",
		checkInRequest{Attendee: "alice"})
	if resp.StatusCode != http.StatusForbidden || body["code"] != "not_authorized" {
		t.Fatalf("foreign check-in = %d %v, want 403 not_authorized", resp.StatusCode, body)
	}
	resp, _ = api.do(http.MethodPost, "/v1/events/"+id+"/checkins", "org-1",
		checkInRequest{Attendee: "alice"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("check-in = %d, want 204", resp.StatusCode)
	}
	if got := api.book.Balance("alice"); got != 100 {
		t.Errorf("alice refund = %d, want 100", got)
	}

	// Settlement too early, then after the grace period.
	resp, body = api.do(http.MethodPost, "/v1/events/"+id+"/settlement", "org-1", nil)
	if resp.StatusCode != http.StatusConflict || body["code"] != "too_early" {
		t.Fatalf("early settle = %d %v, want 409 too_early", resp.StatusCode, body)
	}
	api.clock.Set(scheduledAt.Add(ledger.GracePeriod))

	resp, body = api.do(http.MethodPost, "/v1/events/"+id+"/settlement", "org-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settle = %d %v, want 200", resp.StatusCode, body)
	}
	if body["payout"] != float64(100) {
		t.Errorf("payout = %v, want 100 (bob unclaimed)", body["payout"])
	}

	resp, body = api.do(http.MethodPost, "/v1/events/"+id+"/settlement", "org-1", nil)
	if resp.StatusCode != http.StatusConflict || body["code"] != "already_settled" {
		t.Fatalf("repeat settle = %d %v, want 409 already_settled", resp.StatusCode, body)
	}
}

func TestAPI_CheckInAll(t *testing.T) {
	api := newTestAPI(t)
	id := api.createEvent(1, 3)
	for _, attendee := range []string{"a", "b", "c"} {
		resp, _ := api.do(http.MethodPost, "/v1/events/"+id+"/reservations", "",
			reserveRequest{Attendee: attendee, PaidAmount: 1})
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("reserve %s failed: %d", attendee, resp.StatusCode)
		}
	}

	resp, body := api.do(http.MethodPost, "/v1/events/"+id+"/checkins/all", "org-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check-in all = %d %v, want 200", resp.StatusCode, body)
	}
	results, _ := body["results"].([]any)
	if len(results) != 3 {
		t.Fatalf("results = %d entries, want 3", len(results))
	}
	for _, raw := range results {
		entry := raw.(map[string]any)
		if entry["refunded"] != true {
			t.Errorf("entry %v not refunded", entry)
		}
	}
}

func TestAPI_BadRequests(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(http.MethodGet, "/v1/events/not-hex", "", nil)
	if resp.StatusCode != http.StatusBadRequest || body["code"] != "invalid_id" {
		t.Fatalf("bad id = %d %v, want 400 invalid_id", resp.StatusCode, body)
	}

	missing := strings.Repeat("00", 32)
	resp, body = api.do(http.MethodGet, "/v1/events/"+missing, "", nil)
	if resp.StatusCode != http.StatusNotFound || body["code"] != "unknown_event" {
		t.Fatalf("missing event = %d %v, want 404 unknown_event", resp.StatusCode, body)
	}

	req, _ := http.NewRequest(http.MethodPost, api.srv.URL+"/v1/events", strings.NewReader("{not json"))
	raw, err := api.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer raw.Body.Close()
	if raw.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body = %d, want 400", raw.StatusCode)
	}
}

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz = %d, want 200", resp.StatusCode)
	}
	if body["store"] != "ok" {
		t.Errorf("store health = %v, want ok", body["store"])
	}
}

func TestAPI_RequestIDHeader(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(http.MethodGet, "/healthz", "", nil)
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}
}
