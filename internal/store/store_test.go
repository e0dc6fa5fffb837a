package store

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictSQL(t *testing.T) {
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("phones and emails", func(t *testing.T) {
		q, args := conflictSQL(ConflictQuery{
			Start:  start,
			End:    end,
			Phones: []string{"+16502530000"},
			Emails: []string{"a@example.com", "b@example.com"},
		})

		assert.Contains(t, q, "phone_number")
		assert.Contains(t, q, "email")
		assert.Contains(t, q, " OR ")
		assert.Contains(t, q, "start_time")
		assert.Contains(t, q, "end_time")
		assert.Contains(t, q, "JOIN")
		assert.Contains(t, q, "LIMIT 1")
		assert.Contains(t, args, "CANCELLED")
		assert.Contains(t, args, "+16502530000")
		assert.Contains(t, args, "a@example.com")
		// 3 identities, end, start, status.
		assert.Len(t, args, 6)
	})

	t.Run("exclude id", func(t *testing.T) {
		id := uuid.New()
		_, args := conflictSQL(ConflictQuery{Start: start, End: end, Emails: []string{"a@example.com"}, ExcludeID: &id})
		assert.Contains(t, args, id)
		assert.Len(t, args, 5)
	})

	t.Run("phones only", func(t *testing.T) {
		q, args := conflictSQL(ConflictQuery{Start: start, End: end, Phones: []string{"+1"}})
		assert.NotContains(t, q, "email")
		assert.Len(t, args, 4)
	})
}

func TestConflictQueryEmpty(t *testing.T) {
	assert.True(t, ConflictQuery{}.empty())
	assert.False(t, ConflictQuery{Emails: []string{"x"}}.empty())
}

func TestListSQL(t *testing.T) {
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Millisecond)

	t.Run("defaults ascending", func(t *testing.T) {
		q, args := listSQL(ListQuery{From: from, To: to, Limit: 50})
		assert.Contains(t, q, "ASC")
		assert.Contains(t, q, "LIMIT 50")
		assert.NotContains(t, q, "OFFSET")
		assert.Len(t, args, 2)
	})

	t.Run("all filters descending", func(t *testing.T) {
		q, args := listSQL(ListQuery{
			From: from, To: to,
			Status: "CREATED", Category: "repair", LocationType: "ONLINE", CreatorID: "u-1",
			Desc: true, Limit: 10, Offset: 20,
		})
		assert.Contains(t, q, "DESC")
		assert.Contains(t, q, "OFFSET 20")
		assert.Equal(t, []any{from, to, "CREATED", "repair", "ONLINE", "u-1"}, args)
	})
}

func TestCountSQLIgnoresPaging(t *testing.T) {
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	q, args := countSQL(ListQuery{From: from, To: from.Add(time.Hour), Status: "ASSIGNED", Limit: 5, Offset: 10})

	require.True(t, strings.HasPrefix(q, "SELECT COUNT("))
	assert.NotContains(t, q, "LIMIT")
	assert.NotContains(t, q, "OFFSET")
	assert.Len(t, args, 3)
}

type sleepyExecQuerier struct{ delay time.Duration }

func (e sleepyExecQuerier) Exec(context.Context, string, any, any) error {
	time.Sleep(e.delay)
	return nil
}

func (e sleepyExecQuerier) Query(context.Context, string, any, any) error {
	time.Sleep(e.delay)
	return nil
}

func TestSlowQueryLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := &Store{eq: sleepyExecQuerier{delay: 5 * time.Millisecond}}
	WithSlowQueryLog(time.Millisecond)(s)
	require.NoError(t, s.exec(context.Background(), "UPDATE appointments SET status = $1", nil))
	assert.Contains(t, buf.String(), "slow query")
	assert.Contains(t, buf.String(), "UPDATE appointments")

	buf.Reset()
	s.slow = time.Hour
	_, err := s.query(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
