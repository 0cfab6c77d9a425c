package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/litetable/litetable-orm/pkg/orm"
	"github.com/litetable/litetable-orm/pkg/schema"
)

// The mapping layer drives the store through the same Sink and Source
// contracts production code uses; these tests run a hierarchy against a
// live store end to end.

type alert interface {
	alertLevel() string
}

type pageAlert struct {
	schema.Entity `litetable:"family=alerts, key=alert_id, discriminator=page"`
	AlertID       string `column:"name=alert_id"`
	Oncall        string `column:"name=oncall"`
	Attempts      int    `column:"name=attempts"`
}

func (pageAlert) alertLevel() string { return "page" }

type ticketAlert struct {
	schema.Entity `litetable:"family=alerts, key=alert_id, discriminator=ticket"`
	AlertID       string `column:"name=alert_id"`
	Queue         string `column:"name=queue"`
}

func (ticketAlert) alertLevel() string { return "ticket" }

func newAlertMapper(t *testing.T) *orm.VariantMapper {
	t.Helper()
	r := schema.NewTagResolver()
	require.NoError(t, r.RegisterHierarchy(
		schema.HierarchyOf[alert]("alerts", "level", pageAlert{}, ticketAlert{})))

	m, err := orm.New(&orm.Config{
		Target:   schema.TypeOf[alert](),
		Resolver: r,
	})
	require.NoError(t, err)
	return m
}

func TestStore_variantSwitchRoundTrip(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)
	req.NoError(s.CreateFamily("alerts"))

	m := newAlertMapper(t)

	b := s.Batch("alerts")
	req.NoError(m.Write("alert-1", pageAlert{
		AlertID:  "alert-1",
		Oncall:   "db-team",
		Attempts: 2,
	}, b, 0))
	req.NoError(b.Apply())

	res, err := m.Read("alert-1", s.Row("alerts", "alert-1"))
	req.NoError(err)
	page, ok := orm.As[*pageAlert](res)
	req.True(ok)
	req.Equal("db-team", page.Oncall)

	// Switching the row to another variant through one batch must leave no
	// trace of the old one.
	b = s.Batch("alerts")
	req.NoError(m.Write("alert-1", ticketAlert{
		AlertID: "alert-1",
		Queue:   "storage",
	}, b, 0))
	req.NoError(b.Apply())

	_, ok = s.Value("alerts", "alert-1", "oncall")
	req.False(ok)
	_, ok = s.Value("alerts", "alert-1", "attempts")
	req.False(ok)

	res, err = m.Read("alert-1", s.Row("alerts", "alert-1"))
	req.NoError(err)
	ticket, ok := orm.As[*ticketAlert](res)
	req.True(ok)
	req.Equal(&ticketAlert{AlertID: "alert-1", Queue: "storage"}, ticket)
}

func TestStore_nilWriteDeletesRow(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{})
	req.NoError(err)
	req.NoError(s.CreateFamily("alerts"))

	m := newAlertMapper(t)

	b := s.Batch("alerts")
	req.NoError(m.Write("alert-1", pageAlert{AlertID: "alert-1", Oncall: "net"}, b, 0))
	req.NoError(b.Apply())

	b = s.Batch("alerts")
	req.NoError(m.Write("alert-1", nil, b, 0))
	req.NoError(b.Apply())

	_, ok := s.Value("alerts", "alert-1", "level")
	req.False(ok)
	_, ok = s.Value("alerts", "alert-1", "oncall")
	req.False(ok)

	res, err := m.Read("alert-1", s.Row("alerts", "alert-1"))
	req.NoError(err)
	req.True(res.IsAbsent())
}
