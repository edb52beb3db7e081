package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SandboxGateway is the in-process stand-in for the acquiring bank, used in
// development and in the seeded demo environment. It fabricates references
// and remembers holds so that capture and cancel behave plausibly.
type SandboxGateway struct {
	mu      sync.Mutex
	holds   map[string]int64 // holdRef -> authorized amount
	loggerf func(format string, args ...interface{})
}

func NewSandboxGateway(loggerf func(format string, args ...interface{})) *SandboxGateway {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &SandboxGateway{
		holds:   make(map[string]int64),
		loggerf: loggerf,
	}
}

func (g *SandboxGateway) Hold(ctx context.Context, orderRef string, amount int64, idempotencyKey string) (string, error) {
	ref := "sbx-hold-" + uuid.NewString()
	g.mu.Lock()
	g.holds[ref] = amount
	g.mu.Unlock()
	g.loggerf("level=info msg=sandbox hold order_ref=%s amount=%d ref=%s", orderRef, amount, ref)
	return ref, nil
}

func (g *SandboxGateway) Capture(ctx context.Context, holdRef string, amount int64, idempotencyKey string) (string, error) {
	g.mu.Lock()
	authorized, ok := g.holds[holdRef]
	if ok {
		delete(g.holds, holdRef)
	}
	g.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("sandbox: unknown hold %s", holdRef)
	}
	if amount > authorized {
		return "", fmt.Errorf("sandbox: capture %d exceeds authorized %d", amount, authorized)
	}
	ref := "sbx-cap-" + uuid.NewString()
	g.loggerf("level=info msg=sandbox capture hold_ref=%s amount=%d ref=%s", holdRef, amount, ref)
	return ref, nil
}

func (g *SandboxGateway) CancelHold(ctx context.Context, holdRef string, idempotencyKey string) error {
	g.mu.Lock()
	_, ok := g.holds[holdRef]
	delete(g.holds, holdRef)
	g.mu.Unlock()
	if !ok {
		return fmt.Errorf("sandbox: unknown hold %s", holdRef)
	}
	g.loggerf("level=info msg=sandbox cancel hold_ref=%s", holdRef)
	return nil
}

func (g *SandboxGateway) Refund(ctx context.Context, transactionRef string, amount int64, description, idempotencyKey string) (string, error) {
	ref := "sbx-ref-" + uuid.NewString()
	g.loggerf("level=info msg=sandbox refund tx_ref=%s amount=%d ref=%s", transactionRef, amount, ref)
	return ref, nil
}
