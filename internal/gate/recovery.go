package gate

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"
)

const (
	codeDigits = 6
	codeTTL    = 15 * time.Minute
)

// CodeSender delivers a recovery code out of band, typically by email.
type CodeSender interface {
	SendCode(email, code string) error
}

// Recovery is the forgotten-pattern escape hatch: a short-lived numeric
// code emailed to the parent; a correct code clears the gate secret so
// the next access request re-enters setup. Codes are single use.
type Recovery struct {
	mu        sync.Mutex
	gate      *Gate
	sender    CodeSender
	logger    *slog.Logger
	now       func() time.Time
	code      string
	expiresAt time.Time
}

// NewRecovery creates a recovery channel for the given gate.
func NewRecovery(g *Gate, sender CodeSender, logger *slog.Logger) *Recovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recovery{gate: g, sender: sender, logger: logger, now: time.Now}
}

// Request issues a fresh code to the given address. A newer request
// invalidates any code still outstanding. Returns false when no sender
// is configured or delivery fails.
func (r *Recovery) Request(email string) bool {
	if r.sender == nil {
		return false
	}

	code, err := generateCode()
	if err != nil {
		r.logger.Error("generate recovery code", "error", err)
		return false
	}
	if err := r.sender.SendCode(email, code); err != nil {
		r.logger.Error("send recovery code", "error", err)
		return false
	}

	r.mu.Lock()
	r.code = code
	r.expiresAt = r.now().Add(codeTTL)
	r.mu.Unlock()
	return true
}

// Verify checks a submitted code. On success the gate secret is cleared
// and the code consumed; expired or wrong codes fail without side
// effects.
func (r *Recovery) Verify(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.code == "" || code != r.code {
		return false
	}
	if r.now().After(r.expiresAt) {
		r.code = ""
		return false
	}
	r.code = ""
	r.gate.store.ClearSecret()
	r.gate.Cancel()
	return true
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("random code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
