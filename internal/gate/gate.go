// Package gate implements the parent gesture gate: a shared secret
// pattern gating privileged operations. The gate is a small state
// machine (Idle, SettingUp, Verifying) holding at most one pending
// action; drawing and capture are the caller's concern, only the
// verification contract lives here.
package gate

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MinGestureLength is the minimum number of pattern nodes accepted when
// setting or verifying the secret.
const MinGestureLength = 4

type State string

const (
	StateIdle      State = "idle"
	StateSettingUp State = "setting_up"
	StateVerifying State = "verifying"
)

// SecretStore is where the hashed secret lives. The family orchestrator
// satisfies it so the secret rides along in the state snapshot.
type SecretStore interface {
	SecretHash() string
	SetSecretHash(hash string)
	ClearSecret()
}

// Action runs once the gate has authorized it.
type Action func()

// SubmitResult reports the outcome of a submitted gesture.
type SubmitResult struct {
	Accepted bool   `json:"accepted"`
	State    State  `json:"state"`
	Reason   string `json:"reason,omitempty"`
}

// Gate authorizes parent-only operations against a stored gesture
// secret.
type Gate struct {
	mu      sync.Mutex
	store   SecretStore
	state   State
	pending Action
	logger  *slog.Logger
}

// New creates an idle gate over the given secret store.
func New(store SecretStore, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{store: store, state: StateIdle, logger: logger}
}

// canonical folds a gesture into the stable string form that gets
// hashed: node indexes joined by dashes.
func canonical(gesture []int) string {
	parts := make([]string, len(gesture))
	for i, n := range gesture {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// State returns the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// HasSecret reports whether a secret has been set.
func (g *Gate) HasSecret() bool {
	return g.store.SecretHash() != ""
}

// SetSecret stores a new gesture secret. Gestures shorter than
// MinGestureLength are rejected.
func (g *Gate) SetSecret(gesture []int) bool {
	if len(gesture) < MinGestureLength {
		return false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(canonical(gesture)), bcrypt.DefaultCost)
	if err != nil {
		g.logger.Error("hash gesture", "error", err)
		return false
	}
	g.store.SetSecretHash(string(hash))
	return true
}

// Verify checks a gesture against the stored secret. Short gestures and
// a missing secret both fail closed.
func (g *Gate) Verify(gesture []int) bool {
	if len(gesture) < MinGestureLength {
		return false
	}
	hash := g.store.SecretHash()
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(canonical(gesture))) == nil
}

// RequestAccess queues an action behind the gate. With no secret set the
// gate enters setup and the next valid gesture both becomes the secret
// and releases the action; otherwise the gate waits for a matching
// gesture. A newer request overwrites any still-pending action.
func (g *Gate) RequestAccess(action Action) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = action
	if g.HasSecret() {
		g.state = StateVerifying
	} else {
		g.state = StateSettingUp
	}
	return g.state
}

// SubmitGesture feeds a captured gesture to the gate. In setup a valid
// gesture becomes the secret and the pending action runs as authorized;
// in verify a match runs the pending action. A failed attempt keeps the
// gate waiting so the caller can retry. The action runs outside the
// gate's lock.
func (g *Gate) SubmitGesture(gesture []int) SubmitResult {
	g.mu.Lock()

	var action Action
	var res SubmitResult
	switch g.state {
	case StateSettingUp:
		if !g.SetSecret(gesture) {
			res = SubmitResult{State: g.state, Reason: "pattern too short"}
			break
		}
		action = g.takePendingLocked()
		res = SubmitResult{Accepted: true, State: g.state}
	case StateVerifying:
		if !g.Verify(gesture) {
			res = SubmitResult{State: g.state, Reason: "pattern does not match"}
			break
		}
		action = g.takePendingLocked()
		res = SubmitResult{Accepted: true, State: g.state}
	default:
		res = SubmitResult{State: g.state, Reason: "no access request pending"}
	}
	g.mu.Unlock()

	if action != nil {
		action()
	}
	return res
}

// Cancel discards the pending action and returns the gate to idle.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
	g.state = StateIdle
}

func (g *Gate) takePendingLocked() Action {
	action := g.pending
	g.pending = nil
	g.state = StateIdle
	return action
}
