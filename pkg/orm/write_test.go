package orm

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/litetable/litetable-orm/pkg/schema"
)

func newNotificationMapper(t *testing.T) *VariantMapper {
	t.Helper()
	m, err := New(&Config{
		Target:   schema.TypeOf[notification](),
		Resolver: newResolver(t, pushNotification{}, emailNotification{}),
	})
	require.NoError(t, err)
	return m
}

func TestVariantMapper_Write_switchLeavesNoStaleColumns(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newNotificationMapper(t)
	frow := newFakeRow()

	req.NoError(m.Write("note-1", pushNotification{
		NoteID:      "note-1",
		DeviceToken: "tok-9",
		Badge:       3,
	}, frow, 0))

	req.Equal([]byte("push"), frow.cells["note-1/kind"])
	req.Contains(frow.cells, "note-1/device_token")
	req.Contains(frow.cells, "note-1/badge")

	// Rewriting the row as a different variant must clear every column the
	// previous variant owned.
	req.NoError(m.Write("note-1", &emailNotification{
		NoteID:  "note-1",
		Address: "ops@example.com",
		Subject: "disk almost full",
	}, frow, 0))

	req.Equal([]byte("email"), frow.cells["note-1/kind"])
	req.NotContains(frow.cells, "note-1/device_token")
	req.NotContains(frow.cells, "note-1/badge")

	res, err := m.Read("note-1", frow)
	req.NoError(err)
	entity, ok := As[*emailNotification](res)
	req.True(ok)
	req.Equal(&emailNotification{
		NoteID:  "note-1",
		Address: "ops@example.com",
		Subject: "disk almost full",
	}, entity)
}

func TestVariantMapper_Write_clearsColumnsOthersDeclare(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	ctrl := gomock.NewController(t)
	pushMapper := NewMockFieldMapper(ctrl)
	emailMapper := NewMockFieldMapper(ctrl)
	for _, fm := range []*MockFieldMapper{pushMapper, emailMapper} {
		fm.EXPECT().IsIDDefined().Return(true).AnyTimes()
		fm.EXPECT().Schema().Return(nil).AnyTimes()
	}
	pushMapper.EXPECT().Columns().Return([]string{"badge", "device_token"})
	emailMapper.EXPECT().Columns().Return([]string{"address", "subject"})

	m, err := New(&Config{
		Target:   schema.TypeOf[notification](),
		Resolver: newResolver(t, pushNotification{}, emailNotification{}),
		Factory: func(typ reflect.Type, _ *schema.Hierarchy, _ *schema.VariantInfo) (FieldMapper, error) {
			if typ == reflect.TypeOf(pushNotification{}) {
				return pushMapper, nil
			}
			return emailMapper, nil
		},
	})
	req.NoError(err)

	frow := newFakeRow()

	// Writing one variant clears exactly the columns the other declares, in
	// the restricted form.
	emailMapper.EXPECT().Clear("note-1", frow, "address", "subject")
	pushMapper.EXPECT().Write("note-1", gomock.Any(), frow, time.Duration(0)).Return(nil)

	req.NoError(m.Write("note-1", pushNotification{NoteID: "note-1"}, frow, 0))
	req.Equal([]byte("push"), frow.cells["note-1/kind"])
}

func TestVariantMapper_Write_sharedColumnSurvivesSwitch(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newNotificationMapper(t)
	frow := newFakeRow()

	req.NoError(m.Write("note-1", pushNotification{NoteID: "old"}, frow, 0))
	req.NoError(m.Write("note-1", emailNotification{NoteID: "new"}, frow, 0))

	// note_id is mapped by both variants: the clear issued for the old
	// variant precedes the new variant's put, so the new value stays.
	req.Equal([]byte("new"), frow.cells["note-1/note_id"])
}

func TestVariantMapper_Write_nilDeletesRow(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		entity any
	}{
		"untyped nil": {entity: nil},
		"typed nil":   {entity: (*pushNotification)(nil)},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := require.New(t)

			m := newNotificationMapper(t)
			frow := newFakeRow()

			req.NoError(m.Write("note-1", pushNotification{
				NoteID:      "note-1",
				DeviceToken: "tok-9",
			}, frow, 0))
			req.NoError(m.Write("note-1", tc.entity, frow, 0))

			req.Empty(frow.cells)

			res, err := m.Read("note-1", frow)
			req.NoError(err)
			req.True(res.IsAbsent())
		})
	}
}

func TestVariantMapper_Write_unregisteredType(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newNotificationMapper(t)

	err := m.Write("note-1", faxNotification{Line: "555"}, newFakeRow(), 0)
	req.ErrorIs(err, ErrUnknownVariant)
	req.ErrorContains(err, "faxNotification")
}

func TestVariantMapper_Write_ttl(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newNotificationMapper(t)
	frow := newFakeRow()

	// emailNotification declares ttl=600; with no caller TTL the default
	// covers the discriminator and the variant columns alike.
	req.NoError(m.Write("note-1", emailNotification{NoteID: "note-1"}, frow, 0))
	req.Equal(10*time.Minute, frow.ttls["note-1/kind"])
	req.Equal(10*time.Minute, frow.ttls["note-1/address"])

	// A caller TTL overrides the declared default.
	req.NoError(m.Write("note-2", emailNotification{NoteID: "note-2"}, frow, 2*time.Minute))
	req.Equal(2*time.Minute, frow.ttls["note-2/kind"])
	req.Equal(2*time.Minute, frow.ttls["note-2/address"])

	// pushNotification declares none, so nothing expires.
	req.NoError(m.Write("note-3", pushNotification{NoteID: "note-3"}, frow, 0))
	req.Equal(time.Duration(0), frow.ttls["note-3/kind"])
}

func TestVariantMapper_ID(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newNotificationMapper(t)

	id, err := m.ID(pushNotification{NoteID: "note-7"})
	req.NoError(err)
	req.Equal("note-7", id)

	id, err = m.ID(&emailNotification{NoteID: "note-8"})
	req.NoError(err)
	req.Equal("note-8", id)

	_, err = m.ID(faxNotification{})
	req.ErrorIs(err, ErrUnknownVariant)
}

func TestVariantMapper_SetID(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newNotificationMapper(t)

	var p pushNotification
	req.NoError(m.SetID(&p, "note-9"))
	req.Equal("note-9", p.NoteID)

	req.ErrorIs(m.SetID(&faxNotification{}, "note-9"), ErrUnknownVariant)
}
