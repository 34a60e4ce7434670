// Package location models the device location source: a one-shot fix
// provider gated by runtime permission and GPS-enabled state, and a watcher
// that turns it into a bounded-rate stream of fixes.
package location

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrPermissionDenied means location permission is not granted.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrLocationDisabled means device location services are off.
	ErrLocationDisabled = errors.New("device location disabled")

	// ErrNoFix means the provider could not resolve a position.
	ErrNoFix = errors.New("no location fix")
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Provider is the underlying fused-location source. CurrentFix resolves or
// fails within the provider's own timeout; it never blocks indefinitely.
type Provider interface {
	HasPermission() bool
	Enabled() bool
	CurrentFix(ctx context.Context) (Coordinate, error)
}

// Watcher turns a Provider into a restartable stream of fixes. Preconditions
// are checked at subscribe time: a missing permission or disabled GPS fails
// the Watch call outright instead of surfacing later through the channel.
type Watcher struct {
	provider Provider
}

func NewWatcher(p Provider) *Watcher {
	return &Watcher{provider: p}
}

// Watch emits fixes no more often than minInterval, skipping fixes that moved
// less than minDisplacementM from the last emitted one. The channel closes
// when ctx is cancelled; calling Watch again starts a fresh stream.
func (w *Watcher) Watch(ctx context.Context, minInterval time.Duration, minDisplacementM float64) (<-chan Coordinate, error) {
	if !w.provider.HasPermission() {
		return nil, ErrPermissionDenied
	}
	if !w.provider.Enabled() {
		return nil, ErrLocationDisabled
	}
	if minInterval <= 0 {
		minInterval = time.Second
	}
	out := make(chan Coordinate, 1)
	go func() {
		defer close(out)
		var last *Coordinate
		ticker := time.NewTicker(minInterval)
		defer ticker.Stop()
		for {
			fix, err := w.provider.CurrentFix(ctx)
			if err == nil {
				if last == nil || MetersBetween(*last, fix) >= minDisplacementM {
					select {
					case out <- fix:
						f := fix
						last = &f
					case <-ctx.Done():
						return
					}
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out, nil
}

// SimulatedProvider is a scripted Provider for tests and local runs.
type SimulatedProvider struct {
	mu         sync.Mutex
	permission bool
	enabled    bool
	fixes      []Coordinate
	next       int
}

func NewSimulatedProvider(fixes ...Coordinate) *SimulatedProvider {
	return &SimulatedProvider{permission: true, enabled: true, fixes: fixes}
}

func (p *SimulatedProvider) SetPermission(granted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permission = granted
}

func (p *SimulatedProvider) SetEnabled(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = on
}

func (p *SimulatedProvider) HasPermission() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.permission
}

func (p *SimulatedProvider) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// CurrentFix replays the scripted fixes, repeating the final one.
func (p *SimulatedProvider) CurrentFix(ctx context.Context) (Coordinate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.fixes) == 0 {
		return Coordinate{}, ErrNoFix
	}
	fix := p.fixes[p.next]
	if p.next < len(p.fixes)-1 {
		p.next++
	}
	return fix, nil
}
