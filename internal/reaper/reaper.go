// Package reaper runs the store's garbage collection on a fixed cadence.
// The store owns the sweep itself; the reaper owns when it runs and how it
// shuts down.
package reaper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=reaper_mock.go -package=reaper -source=reaper.go

// sweeper purges expired cells and settled tombstones, returning how many
// cells were removed.
type sweeper interface {
	Sweep(now time.Time) int
}

type Reaper struct {
	store        sweeper
	reapInterval time.Duration

	mutex sync.Mutex

	procCtx context.Context
	cancel  context.CancelFunc
}

type Config struct {
	Store    sweeper
	Interval time.Duration
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Store == nil {
		errGrp = append(errGrp, errors.New("store cannot be nil"))
	}
	if c.Interval <= 0 {
		errGrp = append(errGrp, errors.New("interval must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// New creates a new Reaper.
func New(cfg *Config) (*Reaper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// create a cancel context to ensure garbage collection shuts down gracefully
	ctx, cancel := context.WithCancel(context.Background())

	return &Reaper{
		store:        cfg.Store,
		reapInterval: cfg.Interval,
		mutex:        sync.Mutex{},
		procCtx:      ctx,
		cancel:       cancel,
	}, nil
}

func (r *Reaper) Start() error {
	go func() {
		ticker := time.NewTicker(r.reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.procCtx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
	return nil
}

func (r *Reaper) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}

	// Wait for a running sweep to finish
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return nil
}

func (r *Reaper) Name() string {
	return "Reaper"
}

func (r *Reaper) sweep() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if removed := r.store.Sweep(time.Now()); removed > 0 {
		log.Debug().Int("cells", removed).Msg("reaper removed expired cells")
	}
}
