package reaper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		cfg       func(ctrl *gomock.Controller) *Config
		expectErr bool
	}{
		"valid config": {
			cfg: func(ctrl *gomock.Controller) *Config {
				return &Config{Store: NewMocksweeper(ctrl), Interval: time.Minute}
			},
		},
		"missing store": {
			cfg: func(*gomock.Controller) *Config {
				return &Config{Interval: time.Minute}
			},
			expectErr: true,
		},
		"missing interval": {
			cfg: func(ctrl *gomock.Controller) *Config {
				return &Config{Store: NewMocksweeper(ctrl)}
			},
			expectErr: true,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := require.New(t)

			got, err := New(tc.cfg(gomock.NewController(t)))
			if tc.expectErr {
				req.Error(err)
				req.Nil(got)
				return
			}
			req.NoError(err)
			req.NotNil(got)
			req.Equal("Reaper", got.Name())
		})
	}
}

func TestReaper_sweepsOnInterval(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	ctrl := gomock.NewController(t)
	store := NewMocksweeper(ctrl)

	swept := make(chan struct{})
	var once bool
	store.EXPECT().Sweep(gomock.Any()).DoAndReturn(func(time.Time) int {
		if !once {
			once = true
			close(swept)
		}
		return 1
	}).AnyTimes()

	r, err := New(&Config{Store: store, Interval: 5 * time.Millisecond})
	req.NoError(err)
	req.NoError(r.Start())

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("reaper never swept")
	}
	req.NoError(r.Stop())
}

func TestReaper_Stop_waitsForSweep(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	ctrl := gomock.NewController(t)
	store := NewMocksweeper(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	var once bool
	store.EXPECT().Sweep(gomock.Any()).DoAndReturn(func(time.Time) int {
		if !once {
			once = true
			close(started)
			<-release
		}
		return 0
	}).AnyTimes()

	r, err := New(&Config{Store: store, Interval: 5 * time.Millisecond})
	req.NoError(err)
	req.NoError(r.Start())

	<-started

	done := make(chan struct{})
	go func() {
		_ = r.Stop()
		close(done)
	}()

	// Stop must block while a sweep holds the mutex.
	select {
	case <-done:
		t.Fatal("Stop returned while a sweep was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop never returned")
	}
}
