package store

import (
	"database/sql"
	"strconv"
	"sync"
	"time"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// idGenerator hands out "<prefix>-<unix millis>" ids. Two calls within the
// same millisecond get consecutive values, so ids stay unique per process and
// keep sorting by creation time.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

var ids = &idGenerator{now: time.Now}

func (g *idGenerator) next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return prefix + "-" + strconv.FormatInt(ms, 10)
}

func newID(prefix string) string {
	return ids.next(prefix)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
