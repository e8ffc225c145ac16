package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dglass/copperpot/internal/config"
	"github.com/dglass/copperpot/internal/database"
	"github.com/dglass/copperpot/internal/logging"
	"github.com/dglass/copperpot/internal/model"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	srv, err := New(db, cfg, logging.Setup("error", "text"))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	srv := setupServer(t)
	rec := doJSON(t, srv.Router(), "GET", "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMemberLifecycleOverHTTP(t *testing.T) {
	srv := setupServer(t)
	router := srv.Router()

	rec := doJSON(t, router, "POST", "/api/members", map[string]string{
		"name": "Ada", "role": "child", "avatar": "🦊",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	member := decode[model.User](t, rec)
	if member.Name != "Ada" || member.Role != model.RoleChild {
		t.Errorf("member = %+v", member)
	}

	rec = doJSON(t, router, "GET", "/api/members", nil)
	members := decode[[]model.User](t, rec)
	if len(members) != 1 {
		t.Fatalf("len(members) = %d, want 1", len(members))
	}

	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/members/%s/switch", member.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("switch status = %d", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/api/members/active", nil)
	active := decode[model.User](t, rec)
	if active.ID != member.ID {
		t.Errorf("active = %s, want %s", active.ID, member.ID)
	}

	rec = doJSON(t, router, "DELETE", "/api/members/"+member.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, router, "DELETE", "/api/members/"+member.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestChoreCompletionAwardsGems(t *testing.T) {
	srv := setupServer(t)
	router := srv.Router()

	member := decode[model.User](t, doJSON(t, router, "POST", "/api/members", map[string]string{
		"name": "Ben", "role": "child",
	}))

	rec := doJSON(t, router, "POST", "/api/chores", map[string]any{
		"name": "Dishes", "points": 5, "recurrence": "daily", "userId": member.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create chore status = %d: %s", rec.Code, rec.Body.String())
	}
	chore := decode[model.Chore](t, rec)

	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/chores/%s/complete", chore.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d: %s", rec.Code, rec.Body.String())
	}

	// Chore approval defaults off, so gems land immediately.
	members := decode[[]model.User](t, doJSON(t, router, "GET", "/api/members", nil))
	if members[0].GemBalance != 5 {
		t.Errorf("gem balance = %d, want 5", members[0].GemBalance)
	}

	// Completing again conflicts.
	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/chores/%s/complete", chore.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second complete status = %d, want 409", rec.Code)
	}
}

func TestJobApprovalFlowOverHTTP(t *testing.T) {
	srv := setupServer(t)
	router := srv.Router()

	child := decode[model.User](t, doJSON(t, router, "POST", "/api/members", map[string]string{
		"name": "Cleo", "role": "child",
	}))
	parent := decode[model.User](t, doJSON(t, router, "POST", "/api/members", map[string]string{
		"name": "Dana", "role": "parent",
	}))

	rec := doJSON(t, router, "POST", "/api/jobs", map[string]any{
		"title": "Mow lawn", "value": 500, "recurrence": "weekly",
		"userId": child.ID, "requiresApproval": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[model.Job](t, rec)

	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/jobs/%s/complete", created.ID), map[string]int{"count": 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d: %s", rec.Code, rec.Body.String())
	}

	members := decode[[]model.User](t, doJSON(t, router, "GET", "/api/members", nil))
	for _, m := range members {
		if m.ID == child.ID && m.PendingBalance != 500 {
			t.Errorf("pending balance = %d, want 500", m.PendingBalance)
		}
	}

	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/jobs/%s/approve", created.ID), map[string]any{
		"approvedBy": parent.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d: %s", rec.Code, rec.Body.String())
	}

	members = decode[[]model.User](t, doJSON(t, router, "GET", "/api/members", nil))
	for _, m := range members {
		if m.ID == child.ID {
			if m.CashBalance != 500 {
				t.Errorf("cash balance = %d, want 500", m.CashBalance)
			}
			if m.PendingBalance != 0 {
				t.Errorf("pending balance = %d, want 0", m.PendingBalance)
			}
		}
	}

	transactions := decode[[]model.Transaction](t, doJSON(t, router, "GET", "/api/transactions?userId="+child.ID.String(), nil))
	if len(transactions) != 1 {
		t.Fatalf("len(transactions) = %d, want 1", len(transactions))
	}
	if transactions[0].Amount != 500 {
		t.Errorf("transaction amount = %d, want 500", transactions[0].Amount)
	}
}

func TestGateSetupAndVerifyOverHTTP(t *testing.T) {
	srv := setupServer(t)
	router := srv.Router()

	parent := decode[model.User](t, doJSON(t, router, "POST", "/api/members", map[string]string{
		"name": "Eve", "role": "parent",
	}))

	rec := doJSON(t, router, "POST", "/api/gate/request", map[string]any{"userId": parent.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("request status = %d: %s", rec.Code, rec.Body.String())
	}
	state := decode[map[string]string](t, rec)
	if state["state"] != "setting_up" {
		t.Fatalf("state = %q, want setting_up", state["state"])
	}

	// First valid gesture becomes the secret and runs the switch.
	rec = doJSON(t, router, "POST", "/api/gate/submit", map[string]any{"gesture": []int{0, 4, 8, 5}})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body.String())
	}

	active := decode[model.User](t, doJSON(t, router, "GET", "/api/members/active", nil))
	if active.ID != parent.ID {
		t.Errorf("active = %s, want parent after gated switch", active.ID)
	}

	// Second request verifies against the stored pattern.
	doJSON(t, router, "POST", "/api/gate/request", map[string]any{})
	rec = doJSON(t, router, "POST", "/api/gate/submit", map[string]any{"gesture": []int{1, 2, 3, 4}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong gesture status = %d, want 401", rec.Code)
	}
	rec = doJSON(t, router, "POST", "/api/gate/submit", map[string]any{"gesture": []int{0, 4, 8, 5}})
	if rec.Code != http.StatusOK {
		t.Errorf("correct gesture status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSaverDebounce(t *testing.T) {
	saves := make(chan struct{}, 10)
	s := newSaver(10*time.Millisecond, func() { saves <- struct{}{} })

	s.Request()
	s.Request()
	s.Request()

	select {
	case <-saves:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for save")
	}

	select {
	case <-saves:
		t.Error("expected a single save for a burst of requests")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSaverFlush(t *testing.T) {
	saves := make(chan struct{}, 10)
	s := newSaver(time.Hour, func() { saves <- struct{}{} })

	s.Request()
	s.Flush()

	select {
	case <-saves:
	case <-time.After(time.Second):
		t.Fatal("flush should save immediately")
	}
}
