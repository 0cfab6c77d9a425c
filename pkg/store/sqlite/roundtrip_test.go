package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/litetable/litetable-orm/pkg/orm"
	"github.com/litetable/litetable-orm/pkg/schema"
)

// The durable backend must honor the same mapping contracts as the
// in-memory store; this runs a hierarchy against it end to end.

type job interface {
	jobID() string
}

type batchJob struct {
	schema.Entity `litetable:"family=jobs, key=job_id, discriminator=batch"`
	JobID         string `column:"name=job_id"`
	InputPath     string `column:"name=input_path"`
	Shards        int    `column:"name=shards"`
}

func (j batchJob) jobID() string { return j.JobID }

type streamJob struct {
	schema.Entity `litetable:"family=jobs, key=job_id, discriminator=stream"`
	JobID         string `column:"name=job_id"`
	Topic         string `column:"name=topic"`
}

func (j streamJob) jobID() string { return j.JobID }

func newJobMapper(t *testing.T) *orm.VariantMapper {
	t.Helper()
	r := schema.NewTagResolver()
	require.NoError(t, r.RegisterHierarchy(
		schema.HierarchyOf[job]("jobs", "mode", batchJob{}, streamJob{})))

	m, err := orm.New(&orm.Config{
		Target:   schema.TypeOf[job](),
		Resolver: r,
	})
	require.NoError(t, err)
	return m
}

func TestStore_mapperRoundTrip(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s := newTestStore(t, ":memory:")
	req.NoError(s.CreateFamily("jobs"))

	m := newJobMapper(t)

	b := s.Batch("jobs")
	req.NoError(m.Write("job-1", batchJob{
		JobID:     "job-1",
		InputPath: "s3://ingest/day=2024-06-01",
		Shards:    16,
	}, b, 0))
	req.NoError(b.Apply())

	res, err := m.Read("job-1", s.Row("jobs", "job-1"))
	req.NoError(err)
	got, ok := orm.As[*batchJob](res)
	req.True(ok)
	req.Equal(16, got.Shards)

	// Switching the row's variant through one batch removes the old
	// variant's columns.
	b = s.Batch("jobs")
	req.NoError(m.Write("job-1", streamJob{JobID: "job-1", Topic: "clicks"}, b, 0))
	req.NoError(b.Apply())

	_, ok = s.Value("jobs", "job-1", "input_path")
	req.False(ok)
	_, ok = s.Value("jobs", "job-1", "shards")
	req.False(ok)

	res, err = m.Read("job-1", s.Row("jobs", "job-1"))
	req.NoError(err)
	stream, ok := orm.As[*streamJob](res)
	req.True(ok)
	req.Equal(&streamJob{JobID: "job-1", Topic: "clicks"}, stream)

	// A nil write deletes the row outright.
	b = s.Batch("jobs")
	req.NoError(m.Write("job-1", nil, b, 0))
	req.NoError(b.Apply())

	res, err = m.Read("job-1", s.Row("jobs", "job-1"))
	req.NoError(err)
	req.True(res.IsAbsent())

	var count int
	req.NoError(s.db.QueryRow(`SELECT COUNT(*) FROM cells`).Scan(&count))
	req.Equal(0, count)
}
