package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/litetable/litetable-orm/internal/wal"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		cfg       *Config
		expectErr bool
	}{
		"memory only": {
			cfg: &Config{},
		},
		"with directory": {
			cfg: &Config{Dir: t.TempDir()},
		},
		"negative reap interval": {
			cfg:       &Config{ReapInterval: -time.Second},
			expectErr: true,
		},
		"negative tombstone grace": {
			cfg:       &Config{TombstoneGrace: -time.Second},
			expectErr: true,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := require.New(t)

			s, err := New(tc.cfg)
			if tc.expectErr {
				req.Error(err)
				req.Nil(s)
				return
			}
			req.NoError(err)
			req.NotNil(s)
			req.Equal("Store", s.Name())
		})
	}
}

func TestStore_CreateFamily(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)

	req.ErrorIs(s.CreateFamily(""), ErrInvalidFamily)

	req.NoError(s.CreateFamily("events"))
	req.NoError(s.CreateFamily("events"))
	req.NoError(s.CreateFamily("archive"))
	req.Equal([]string{"archive", "events"}, s.Families())
}

func TestStore_CreateFamily_persists(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	dir := t.TempDir()

	s, err := New(&Config{Dir: dir})
	req.NoError(err)
	req.NoError(s.CreateFamily("events"))

	again, err := New(&Config{Dir: dir})
	req.NoError(err)
	req.Equal([]string{"events"}, again.Families())
}

func TestBatch_Apply(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)
	req.NoError(s.CreateFamily("events"))

	b := s.Batch("events")
	b.Put("row-1", "kind", []byte("push"), 0)
	b.Put("row-1", "badge", []byte("3"), 0)
	req.Equal(2, b.Len())
	req.NoError(b.Apply())

	v, ok := s.Value("events", "row-1", "kind")
	req.True(ok)
	req.Equal([]byte("push"), v)

	src := s.Row("events", "row-1")
	v, ok = src.Get("row-1", "badge")
	req.True(ok)
	req.Equal([]byte("3"), v)

	// The snapshot is bound to its row key.
	_, ok = src.Get("row-2", "badge")
	req.False(ok)

	// Apply reset the batch; an empty reapply is a no-op.
	req.Equal(0, b.Len())
	req.NoError(b.Apply())
}

func TestBatch_Apply_unknownFamily(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)

	b := s.Batch("missing")
	b.Put("row-1", "kind", []byte("push"), 0)
	req.ErrorIs(b.Apply(), ErrUnknownFamily)
}

func TestBatch_coalesces(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		stage    func(b *Batch)
		expected []byte
		visible  bool
	}{
		"put then clear leaves a tombstone": {
			stage: func(b *Batch) {
				b.Put("row-1", "kind", []byte("push"), 0)
				b.Clear("row-1", "kind")
			},
		},
		"clear then put leaves the value": {
			stage: func(b *Batch) {
				b.Clear("row-1", "kind")
				b.Put("row-1", "kind", []byte("email"), 0)
			},
			expected: []byte("email"),
			visible:  true,
		},
		"second put wins": {
			stage: func(b *Batch) {
				b.Put("row-1", "kind", []byte("push"), 0)
				b.Put("row-1", "kind", []byte("sms"), 0)
			},
			expected: []byte("sms"),
			visible:  true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := require.New(t)

			s, err := New(&Config{})
			req.NoError(err)
			req.NoError(s.CreateFamily("events"))

			b := s.Batch("events")
			tc.stage(b)
			req.Equal(1, b.Len())
			req.NoError(b.Apply())

			v, ok := s.Value("events", "row-1", "kind")
			req.Equal(tc.visible, ok)
			if tc.visible {
				req.Equal(tc.expected, v)
			}
		})
	}
}

func TestStore_tombstoneHidesOlderVersions(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)
	req.NoError(s.CreateFamily("events"))

	b := s.Batch("events")
	b.Put("row-1", "kind", []byte("push"), 0)
	req.NoError(b.Apply())

	b.Clear("row-1", "kind")
	req.NoError(b.Apply())

	_, ok := s.Value("events", "row-1", "kind")
	req.False(ok)

	// A later write resurrects the qualifier.
	b.Put("row-1", "kind", []byte("email"), 0)
	req.NoError(b.Apply())

	v, ok := s.Value("events", "row-1", "kind")
	req.True(ok)
	req.Equal([]byte("email"), v)
}

func TestStore_sameTimestampResolvesBySeq(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)

	ts := time.Now()
	s.applyOp("events", wal.Op{Key: "row-1", Qualifier: "kind", Value: []byte("push")}, ts)
	s.applyOp("events", wal.Op{Key: "row-1", Qualifier: "kind", Value: []byte("email")}, ts)

	v, ok := s.Value("events", "row-1", "kind")
	req.True(ok)
	req.Equal([]byte("email"), v)
}

func TestStore_ttlExpires(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)
	req.NoError(s.CreateFamily("events"))

	b := s.Batch("events")
	b.Put("row-1", "kind", []byte("push"), 25*time.Millisecond)
	b.Put("row-1", "badge", []byte("3"), 0)
	req.NoError(b.Apply())

	_, ok := s.Value("events", "row-1", "kind")
	req.True(ok)

	time.Sleep(250 * time.Millisecond)

	_, ok = s.Value("events", "row-1", "kind")
	req.False(ok)

	// Cells without TTL stay.
	_, ok = s.Value("events", "row-1", "badge")
	req.True(ok)
}

func TestStore_Sweep(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{TombstoneGrace: time.Minute})
	req.NoError(err)
	req.NoError(s.CreateFamily("events"))

	b := s.Batch("events")
	b.Put("row-1", "kind", []byte("push"), time.Minute)
	b.Put("row-2", "kind", []byte("email"), 0)
	req.NoError(b.Apply())

	b.Clear("row-2", "kind")
	req.NoError(b.Apply())

	// Nothing is due yet.
	req.Zero(s.Sweep(time.Now()))

	// Far enough in the future the TTL passed and the tombstone settled.
	removed := s.Sweep(time.Now().Add(time.Hour))
	req.Equal(3, removed)

	_, ok := s.Value("events", "row-1", "kind")
	req.False(ok)
	req.Empty(s.data)
}
