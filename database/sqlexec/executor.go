// Package sqlexec runs sqlbuilder statements against a database/sql pool
// and materializes select results according to the statement's row type.
package sqlexec

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/typedsql/typedsql/container/lrucache"
	"github.com/typedsql/typedsql/database/sqlbuilder"
	"github.com/typedsql/typedsql/errors"
	"github.com/typedsql/typedsql/stats"
)

// A statement with a known row type, i.e. a select or a union.
type Query interface {
	sqlbuilder.Statement

	RowType() sqlbuilder.SqlType
}

type ExecutorOptions struct {
	// Maximum number of prepared statements kept open.  Defaults to 64.
	StatementCacheSize int

	// Defaults to a disabled logger.
	Logger *zerolog.Logger

	// Defaults to stats.NoOpStatsFactory.
	StatsFactory stats.StatsFactory
}

const (
	loadKind = "load"
	execKind = "exec"
)

type executorStats struct {
	queries     map[string]stats.CounterStat
	errors      map[string]stats.CounterStat
	latency     map[string]stats.SummaryStat
	cacheMisses stats.CounterStat
	cacheSize   stats.GaugeStat
}

func newExecutorStats(factory stats.StatsFactory) *executorStats {
	s := &executorStats{
		queries: make(map[string]stats.CounterStat),
		errors:  make(map[string]stats.CounterStat),
		latency: make(map[string]stats.SummaryStat),
		cacheMisses: factory.NewCounter(
			"sqlexec.statement_cache.misses",
			nil),
		cacheSize: factory.NewGauge("sqlexec.statement_cache.size", nil),
	}
	for _, kind := range []string{loadKind, execKind} {
		tags := map[string]string{"kind": kind}
		s.queries[kind] = factory.NewCounter("sqlexec.queries", tags)
		s.errors[kind] = factory.NewCounter("sqlexec.errors", tags)
		s.latency[kind] = factory.NewSummary("sqlexec.latency_seconds", tags)
	}
	return s
}

// A cached prepared statement.  An evicted statement is closed once the
// last query using it is done.
type cachedStmt struct {
	stmt *sql.Stmt

	mutex   sync.Mutex
	refs    int
	evicted bool
}

func (s *cachedStmt) acquire() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.evicted {
		return false
	}
	s.refs++
	return true
}

func (s *cachedStmt) release() {
	s.mutex.Lock()
	s.refs--
	closeNow := s.evicted && s.refs == 0
	s.mutex.Unlock()

	if closeNow {
		_ = s.stmt.Close()
	}
}

func (s *cachedStmt) evict() {
	s.mutex.Lock()
	s.evicted = true
	closeNow := s.refs == 0
	s.mutex.Unlock()

	if closeNow {
		_ = s.stmt.Close()
	}
}

// Executor renders statements for one database and runs them through a
// cache of prepared statements keyed by the generated sql.  Safe for
// concurrent use.
type Executor struct {
	db     *sql.DB
	dbInfo sqlbuilder.Database
	ownsDB bool

	stmts  *lrucache.LRUCache
	logger zerolog.Logger
	stats  *executorStats
}

func NewExecutor(
	db *sql.DB,
	dbInfo sqlbuilder.Database,
	options ExecutorOptions) *Executor {

	if options.StatementCacheSize == 0 {
		options.StatementCacheSize = defaultStatementCacheSize
	}
	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}
	if options.StatsFactory == nil {
		options.StatsFactory = stats.NoOpStatsFactory
	}

	return &Executor{
		db:     db,
		dbInfo: dbInfo,
		stmts: lrucache.NewWithEvictionCallback(
			options.StatementCacheSize,
			func(key string, val interface{}) {
				val.(*cachedStmt).evict()
			}),
		logger: logger.With().Str("dialect", dbInfo.Dialect().String()).Logger(),
		stats:  newExecutorStats(options.StatsFactory),
	}
}

func (e *Executor) Database() sqlbuilder.Database {
	return e.dbInfo
}

func (e *Executor) DB() *sql.DB {
	return e.db
}

// Returns a prepared statement for sql.  The caller must release it.
func (e *Executor) prepare(
	ctx context.Context,
	query string) (*cachedStmt, error) {

	// An entry that fails to acquire lost a race with eviction, and is no
	// longer cached.
	if val, ok := e.stmts.Get(query); ok && val.(*cachedStmt).acquire() {
		return val.(*cachedStmt), nil
	}

	e.stats.cacheMisses.Inc()
	stmt, err := e.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	cached := &cachedStmt{stmt: stmt, refs: 1}
	if _, stored := e.stmts.SetIfAbsent(query, cached); !stored {
		// Another goroutine prepared the same sql first.  Theirs stays
		// cached, this one is closed once released.
		cached.evicted = true
		return cached, nil
	}
	e.stats.cacheSize.Set(float64(e.stmts.Len()))
	return cached, nil
}

// Runs a select (or union) and returns one value per row, materialized
// according to q.RowType(): a scalar for single column rows, an
// []interface{} otherwise.
func (e *Executor) Load(ctx context.Context, q Query) ([]interface{}, error) {
	rendered, err := q.Render(e.dbInfo)
	if err != nil {
		return nil, err
	}

	decoder := newRowDecoder(q.RowType())

	var results []interface{}
	err = e.run(ctx, loadKind, rendered, func(stmt *sql.Stmt, args []interface{}) error {
		rows, err := stmt.QueryContext(ctx, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return err
		}
		if err := decoder.checkColumns(columns); err != nil {
			return err
		}

		for rows.Next() {
			row, err := decoder.decode(rows)
			if err != nil {
				return err
			}
			results = append(results, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Runs a statement which returns no rows.
func (e *Executor) Exec(
	ctx context.Context,
	stmt sqlbuilder.Statement) (sql.Result, error) {

	rendered, err := stmt.Render(e.dbInfo)
	if err != nil {
		return nil, err
	}

	var result sql.Result
	err = e.run(ctx, execKind, rendered, func(stmt *sql.Stmt, args []interface{}) error {
		var err error
		result, err = stmt.ExecContext(ctx, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Executor) run(
	ctx context.Context,
	kind string,
	rendered *sqlbuilder.Rendered,
	do func(stmt *sql.Stmt, args []interface{}) error) error {

	queryId := uuid.NewString()
	logger := e.logger.With().
		Str("query_id", queryId).
		Str("kind", kind).
		Logger()

	e.stats.queries[kind].Inc()
	start := time.Now()

	err := e.runPrepared(ctx, rendered, do)

	elapsed := time.Since(start)
	e.stats.latency[kind].Observe(elapsed.Seconds())

	if err != nil {
		e.stats.errors[kind].Inc()
		logger.Error().
			Err(err).
			Str("sql", rendered.Sql).
			Int("args", len(rendered.Args)).
			Dur("duration", elapsed).
			Msg("query failed")
		return errors.Wrapf(
			err,
			"Query %s failed (generated sql: %s): ",
			queryId,
			rendered.Sql)
	}

	logger.Debug().
		Str("sql", rendered.Sql).
		Int("args", len(rendered.Args)).
		Dur("duration", elapsed).
		Msg("query done")
	return nil
}

func (e *Executor) runPrepared(
	ctx context.Context,
	rendered *sqlbuilder.Rendered,
	do func(stmt *sql.Stmt, args []interface{}) error) error {

	args, err := rendered.DriverArgs()
	if err != nil {
		return err
	}

	cached, err := e.prepare(ctx, rendered.Sql)
	if err != nil {
		return err
	}
	defer cached.release()

	return do(cached.stmt, args)
}

// Closes every cached statement, and the pool when the executor opened it.
func (e *Executor) Close() error {
	for _, val := range e.stmts.Drain() {
		val.(*cachedStmt).evict()
	}
	e.stats.cacheSize.Set(0)

	if e.ownsDB {
		return e.db.Close()
	}
	return nil
}
