package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/sqlbind/sqlbind/cache"
	"github.com/sqlbind/sqlbind/database"
	"github.com/sqlbind/sqlbind/dialect"
	"github.com/sqlbind/sqlbind/schema"
	"github.com/sqlbind/sqlbind/template"
)

// sessionState is the whole per-statement state, replaced atomically on
// Prepare and Finish so no partial state survives a transition.
type sessionState struct {
	id       string
	handle   database.Stmt
	compiled *template.Statement
}

// Session owns one connection, one record store, and at most one live
// compiled statement. The lifecycle is Prepare, Execute, Fetch repeated
// for result sets, Finish. A second Prepare without Finish silently
// discards the previous compiled bindings; the previous statement handle
// is not implicitly finished.
type Session struct {
	ID       uuid.UUID
	conn     database.Conn
	dialect  dialect.Dialect
	store    *schema.Store
	reporter *Reporter
	stmts    *cache.StatementCache
	state    sessionState
}

const stmtCacheSize = 128

// NewSession wraps a dedicated database connection. The dialect decides
// placeholder style; nil means the generic `?` convention.
func NewSession(conn database.Conn, d dialect.Dialect) *Session {
	if d == nil {
		d = dialect.NewGenericDialect()
	}
	return &Session{
		ID:       uuid.New(),
		conn:     conn,
		dialect:  d,
		store:    schema.NewStore(),
		reporter: NewReporter(conn, Fatal()),
		stmts:    cache.NewStatementCache(stmtCacheSize),
	}
}

// Store exposes the session's record store for registration and cell access.
func (s *Session) Store() *schema.Store {
	return s.store
}

// Reporter exposes the session's error reporter, e.g. to install a
// non-fatal handler.
func (s *Session) Reporter() *Reporter {
	return s.reporter
}

// Compiled returns the live compiled statement, nil when none is prepared.
func (s *Session) Compiled() *template.Statement {
	return s.state.compiled
}

// StatementID returns the id of the live statement, empty when idle.
func (s *Session) StatementID() string {
	return s.state.id
}

// Prepare compiles a template against the record store and the optional
// ad-hoc bindings, hands the emitted SQL to the database layer, and
// registers every input cell as an in/out parameter binding in list order.
// An empty statementID gets a generated one. Any failure aborts the whole
// prepare; no partial statement is registered.
func (s *Session) Prepare(ctx context.Context, statementID, tmpl string, ext template.Bindings) error {
	if statementID == "" {
		statementID = ulid.Make().String()
	}
	if s.conn == nil {
		return s.reporter.Report(statementID, ErrNotConnected.Error())
	}

	compiled, err := s.compile(tmpl, ext)
	if err != nil {
		s.state = sessionState{}
		return s.reporter.Report(statementID, err.Error())
	}

	handle, err := s.conn.Prepare(ctx, compiled.SQL)
	if err != nil {
		s.state = sessionState{}
		return s.reporter.Report(statementID, fmt.Sprintf("%v: %v", ErrCompileRejected, err))
	}

	for i, in := range compiled.Inputs {
		if err := handle.BindInput(i+1, in.Cell, in.Size); err != nil {
			_ = handle.Close(ctx)
			s.state = sessionState{}
			return s.reporter.Report(statementID, fmt.Sprintf("%v: %v", ErrBindFailed, err))
		}
	}

	s.state = sessionState{id: statementID, handle: handle, compiled: compiled}
	return nil
}

// compile runs the template compiler, reusing cached artifacts when no
// ad-hoc bindings are in play. Ad-hoc bindings resolve to caller-owned
// cells, so those compiles are never cached.
func (s *Session) compile(tmpl string, ext template.Bindings) (*template.Statement, error) {
	if len(ext) > 0 {
		return template.Compile(tmpl, s.store, ext, s.dialect)
	}
	key := cache.Key(s.store.Version(), s.dialect.Name(), tmpl)
	return s.stmts.GetOrCompile(key, func() (*template.Statement, error) {
		return template.Compile(tmpl, s.store, nil, s.dialect)
	})
}

// Execute runs the live statement. For a read, the output-cell list is
// first registered with the row-fetch mechanism so each Fetch writes
// column values directly into the cells in column order. A failed Execute
// leaves the statement live; callers must still Finish.
func (s *Session) Execute(ctx context.Context) error {
	if s.state.handle == nil {
		return s.reporter.Report(s.state.id, ErrNoStatement.Error())
	}
	if s.state.compiled.IsQuery() {
		if err := s.state.handle.BindOutputs(s.state.compiled.OutputCells()); err != nil {
			return s.reporter.Report(s.state.id, fmt.Sprintf("%v: %v", ErrFetchSetupFailed, err))
		}
	}
	if err := s.state.handle.Execute(ctx); err != nil {
		return s.reporter.Report(s.state.id, fmt.Sprintf("%v: %v", ErrExecuteFailed, err))
	}
	return nil
}

// Fetch advances the result set. It returns false with a nil error at end
// of set; each successful call overwrites the output cells with the next
// row's values.
func (s *Session) Fetch(ctx context.Context) (bool, error) {
	if s.state.handle == nil {
		return false, s.reporter.Report(s.state.id, ErrNoStatement.Error())
	}
	ok, err := s.state.handle.Fetch(ctx)
	if err != nil {
		return false, s.reporter.Report(s.state.id, fmt.Sprintf("%v: %v", ErrFetchFailed, err))
	}
	return ok, nil
}

// Finish releases the statement handle and resets the session to idle,
// ready for the next Prepare.
func (s *Session) Finish(ctx context.Context) {
	if s.state.handle != nil {
		_ = s.state.handle.Close(ctx)
	}
	s.state = sessionState{}
}

// Commit delegates the transaction boundary to the database layer.
func (s *Session) Commit(ctx context.Context) error {
	if s.conn == nil {
		return s.reporter.Report("", ErrNotConnected.Error())
	}
	if err := s.conn.Commit(ctx); err != nil {
		return s.reporter.Report("", err.Error())
	}
	return nil
}

// Rollback delegates the transaction boundary to the database layer.
func (s *Session) Rollback(ctx context.Context) error {
	if s.conn == nil {
		return s.reporter.Report("", ErrNotConnected.Error())
	}
	if err := s.conn.Rollback(ctx); err != nil {
		return s.reporter.Report("", err.Error())
	}
	return nil
}

// Close finishes any live statement and releases the connection.
func (s *Session) Close(ctx context.Context) error {
	s.Finish(ctx)
	s.stmts.Purge()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(ctx)
}
