package delivery

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/fkanj70/Accelerated-Report/models"
)

// ErrChaosInjected marks a synthetic failure produced by chaos mode. It is
// indistinguishable from a real failure to downstream retry logic.
var ErrChaosInjected = errors.New("chaos mode: injected delivery failure")

// ChaosConfig tunes the fault-injection behavior.
type ChaosConfig struct {
	DelayProbability   float64
	FailureProbability float64
	Delay              time.Duration
}

// DefaultChaosConfig returns the demo defaults: 30% chance of an 800 ms
// delay and an independent 30% chance of a synthetic failure.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		DelayProbability:   0.3,
		FailureProbability: 0.3,
		Delay:              800 * time.Millisecond,
	}
}

// ChaosClient wraps a Client with probabilistic fault injection used to
// exercise the retry queue under simulated network degradation. The delay
// and failure rolls are independent Bernoulli draws; the delay roll is
// evaluated first, so an attempt can be delayed and then still fail
// synthetically. When disabled it delegates unchanged.
type ChaosClient struct {
	next    Client
	cfg     ChaosConfig
	enabled atomic.Bool

	// Injection points for deterministic tests.
	roll  func() float64
	sleep func(ctx context.Context, d time.Duration)
}

func NewChaosClient(next Client, cfg ChaosConfig) *ChaosClient {
	return &ChaosClient{
		next:  next,
		cfg:   cfg,
		roll:  rand.Float64,
		sleep: sleepContext,
	}
}

// SetEnabled toggles chaos mode. Safe for concurrent use.
func (c *ChaosClient) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

// Enabled reports whether chaos mode is active.
func (c *ChaosClient) Enabled() bool {
	return c.enabled.Load()
}

func (c *ChaosClient) Submit(ctx context.Context, report *models.QueuedReport) (*models.Receipt, error) {
	if !c.enabled.Load() {
		return c.next.Submit(ctx, report)
	}

	if c.roll() < c.cfg.DelayProbability {
		c.sleep(ctx, c.cfg.Delay)
	}
	if c.roll() < c.cfg.FailureProbability {
		return nil, &DeliveryError{Err: ErrChaosInjected}
	}
	return c.next.Submit(ctx, report)
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
