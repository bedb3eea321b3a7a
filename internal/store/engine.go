package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/dbx"
	"github.com/dmitrijs2005/guardian/internal/logging"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const defaultOpTimeout = 5 * time.Second

// Options configure Open.
type Options struct {
	// Path of the SQLite file, or MemoryPath.
	Path string
	// Registry defaults to DefaultRegistry().
	Registry *Registry
	// OpTimeout bounds every single operation. Defaults to 5s.
	OpTimeout time.Duration
	Logger    logging.Logger
	Metrics   *Metrics
}

// Engine is the persistence engine: typed collections of JSON records in
// SQLite with declared secondary indexes.
type Engine struct {
	db      *sql.DB
	q       dbx.DBTX
	inTx    bool
	closed  *atomic.Bool
	reg     *Registry
	version int64
	timeout time.Duration
	log     logging.Logger
	metrics *Metrics
}

func dsn(path string) string {
	if path == MemoryPath {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
}

// Open opens or creates the database at opts.Path and applies the schema.
// Every failure is reported as ErrStorageUnavailable.
func Open(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: empty path", common.ErrStorageUnavailable)
	}
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultOpTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	db, err := sql.Open(dbx.DriverName, dsn(opts.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", common.ErrStorageUnavailable, opts.Path, err)
	}
	// one connection: operations are serialized and :memory: stays a
	// single database
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, opts.OpTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", common.ErrStorageUnavailable, opts.Path, err)
	}

	version, err := migrate(ctx, db, opts.Registry)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate %s: %w", common.ErrStorageUnavailable, opts.Path, err)
	}

	opts.Logger.Debug(ctx, "store opened", "path", opts.Path, "schema_version", version)

	return &Engine{
		db:      db,
		q:       db,
		closed:  new(atomic.Bool),
		reg:     opts.Registry,
		version: version,
		timeout: opts.OpTimeout,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}, nil
}

// Version is the schema version the database was at after Open.
func (e *Engine) Version() int64 { return e.version }

// Registry returns the schema the engine was opened with.
func (e *Engine) Registry() *Registry { return e.reg }

// Run gives fn the underlying handle (the transaction inside Tx) for
// tables that live outside the collections. fn is bounded by the
// per-operation timeout and its errors are classified like the engine's own.
func (e *Engine) Run(ctx context.Context, op string, fn func(ctx context.Context, q dbx.DBTX) error) error {
	if e.closed.Load() {
		return fmt.Errorf("%s: %w", op, common.ErrEngineClosed)
	}
	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	if err := fn(ctx, e.q); err != nil {
		return classify(err, op)
	}
	return nil
}

// OpContext derives a context bounded by the per-operation timeout.
func (e *Engine) OpContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// Close releases the database. Further operations fail with
// ErrEngineClosed. Closing twice is a no-op.
func (e *Engine) Close() error {
	if e.inTx {
		return fmt.Errorf("close inside transaction: %w", common.ErrInvalidArgument)
	}
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return e.db.Close()
}

// Tx runs fn against a transactional view of the engine: everything fn
// does through tx commits together or not at all. Nested calls reuse the
// outer transaction.
func (e *Engine) Tx(ctx context.Context, fn func(ctx context.Context, tx *Engine) error) error {
	if e.closed.Load() {
		return common.ErrEngineClosed
	}
	if e.inTx {
		return fn(ctx, e)
	}
	return dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, q dbx.DBTX) error {
		view := *e
		view.q = q
		view.inTx = true
		return fn(ctx, &view)
	})
}

func (e *Engine) collection(name string) (*CollectionDef, error) {
	if e.closed.Load() {
		return nil, common.ErrEngineClosed
	}
	return e.reg.Collection(name)
}

// where builds the lookup predicate for an index.
func (e *Engine) where(def *CollectionDef, index string, value any) (string, []any, error) {
	ix, err := def.Index(index)
	if err != nil {
		return "", nil, err
	}
	arg, isNull, err := indexArg(value)
	if err != nil {
		return "", nil, err
	}
	if isNull {
		return fieldExpr(ix.Field) + " IS NULL", nil, nil
	}
	return fieldExpr(ix.Field) + " = ?", []any{arg}, nil
}

// Insert assigns a new id to rec, stamps its creation time when absent and
// persists it.
func (e *Engine) Insert(ctx context.Context, collection string, rec Record) (id int64, err error) {
	defer e.observe(collection, "insert", time.Now(), &err)

	if _, err := e.collection(collection); err != nil {
		return 0, err
	}
	body, created, err := encode(rec)
	if err != nil {
		return 0, err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	res, err := e.q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (body, created_at) VALUES (?, ?)`, collection),
		body, created)
	if err != nil {
		return 0, classify(err, "insert into "+collection)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, classify(err, "insert into "+collection)
	}
	rec.SetID(id)
	return id, nil
}

// Replace writes rec under its id, inserting or overwriting. The id must
// be positive.
func (e *Engine) Replace(ctx context.Context, collection string, rec Record) (err error) {
	defer e.observe(collection, "replace", time.Now(), &err)

	if _, err := e.collection(collection); err != nil {
		return err
	}
	if rec.GetID() <= 0 {
		return fmt.Errorf("replace %s: id %d: %w", collection, rec.GetID(), common.ErrInvalidArgument)
	}
	body, created, err := encode(rec)
	if err != nil {
		return err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	_, err = e.q.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, body, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body
	`, collection), rec.GetID(), body, created)
	if err != nil {
		return classify(err, "replace in "+collection)
	}
	return nil
}

// GetByID decodes the record with the given id into out.
func (e *Engine) GetByID(ctx context.Context, collection string, id int64, out Record) (err error) {
	defer e.observe(collection, "get", time.Now(), &err)

	if _, err := e.collection(collection); err != nil {
		return err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	rows, err := e.query(ctx, collection, fmt.Sprintf(
		`SELECT id, body, created_at FROM %s WHERE id = ?`, collection), id)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s #%d: %w", collection, id, common.ErrNotFound)
	}
	return rows[0].Decode(out)
}

// GetAll returns every record of the collection in id order.
func (e *Engine) GetAll(ctx context.Context, collection string) (rows []Row, err error) {
	defer e.observe(collection, "get_all", time.Now(), &err)

	if _, err := e.collection(collection); err != nil {
		return nil, err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	return e.query(ctx, collection, fmt.Sprintf(
		`SELECT id, body, created_at FROM %s ORDER BY id`, collection))
}

// GetByIndex returns the records whose indexed field equals value. A nil
// value matches records where the field is null or absent. Callers must
// not rely on the order.
func (e *Engine) GetByIndex(ctx context.Context, collection, index string, value any) (rows []Row, err error) {
	defer e.observe(collection, "get_by_index", time.Now(), &err)

	def, err := e.collection(collection)
	if err != nil {
		return nil, err
	}
	cond, args, err := e.where(def, index, value)
	if err != nil {
		return nil, err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	return e.query(ctx, collection, fmt.Sprintf(
		`SELECT id, body, created_at FROM %s WHERE %s`, collection, cond), args...)
}

// Delete removes the record with the given id. Missing ids are not an
// error.
func (e *Engine) Delete(ctx context.Context, collection string, id int64) (err error) {
	defer e.observe(collection, "delete", time.Now(), &err)

	if _, err := e.collection(collection); err != nil {
		return err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	if _, err := e.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, collection), id); err != nil {
		return classify(err, "delete from "+collection)
	}
	return nil
}

// DeleteByIndex removes every record whose indexed field equals value and
// reports how many went away.
func (e *Engine) DeleteByIndex(ctx context.Context, collection, index string, value any) (n int64, err error) {
	defer e.observe(collection, "delete_by_index", time.Now(), &err)

	def, err := e.collection(collection)
	if err != nil {
		return 0, err
	}
	cond, args, err := e.where(def, index, value)
	if err != nil {
		return 0, err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	res, err := e.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, collection, cond), args...)
	if err != nil {
		return 0, classify(err, "delete from "+collection)
	}
	return res.RowsAffected()
}

// Count returns the number of records in the collection.
func (e *Engine) Count(ctx context.Context, collection string) (n int64, err error) {
	defer e.observe(collection, "count", time.Now(), &err)

	if _, err := e.collection(collection); err != nil {
		return 0, err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	err = e.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, collection)).Scan(&n)
	if err != nil {
		return 0, classify(err, "count "+collection)
	}
	return n, nil
}

// CountByIndex counts records whose indexed field equals value.
func (e *Engine) CountByIndex(ctx context.Context, collection, index string, value any) (n int64, err error) {
	defer e.observe(collection, "count_by_index", time.Now(), &err)

	def, err := e.collection(collection)
	if err != nil {
		return 0, err
	}
	cond, args, err := e.where(def, index, value)
	if err != nil {
		return 0, err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	err = e.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, collection, cond), args...).Scan(&n)
	if err != nil {
		return 0, classify(err, "count "+collection)
	}
	return n, nil
}

// Clear removes every record of the collection.
func (e *Engine) Clear(ctx context.Context, collection string) (err error) {
	defer e.observe(collection, "clear", time.Now(), &err)

	if _, err := e.collection(collection); err != nil {
		return err
	}

	ctx, cancel := e.OpContext(ctx)
	defer cancel()

	if _, err := e.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, collection)); err != nil {
		return classify(err, "clear "+collection)
	}
	return nil
}

func (e *Engine) query(ctx context.Context, collection, q string, args ...any) ([]Row, error) {
	rs, err := e.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err, "query "+collection)
	}
	defer rs.Close()

	var out []Row
	for rs.Next() {
		var (
			r       Row
			body    string
			created string
		)
		if err := rs.Scan(&r.ID, &body, &created); err != nil {
			return nil, classify(err, "scan "+collection)
		}
		r.Body = json.RawMessage(body)
		r.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, classify(err, "iterate "+collection)
	}
	return out, nil
}

func (e *Engine) observe(collection, op string, start time.Time, err *error) {
	e.metrics.observe(collection, op, start, *err)
	if *err != nil && !errors.Is(*err, common.ErrNotFound) {
		e.log.Debug(context.Background(), "store op failed", "collection", collection, "op", op, "error", *err)
	}
}

// encode validates rec, stamps it and returns the JSON body together with
// the created_at column value.
func encode(rec Record) (string, string, error) {
	if v, ok := rec.(Validator); ok {
		if err := v.Validate(); err != nil {
			return "", "", err
		}
	}
	created := time.Now().UTC()
	if s, ok := rec.(Stamped); ok {
		if s.GetCreatedAt().IsZero() {
			s.SetCreatedAt(created)
		}
		created = s.GetCreatedAt()
	}
	// index lookups compare the UTC text form
	normalizeTimes(reflect.ValueOf(rec))
	body, err := json.Marshal(rec)
	if err != nil {
		return "", "", fmt.Errorf("encode %T: %w", rec, common.ErrInvalidArgument)
	}
	return string(body), formatTime(created), nil
}

// classify maps driver errors onto the common sentinels.
func classify(err error, op string) error {
	switch {
	case dbx.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, common.ErrConstraintViolation)
	case errors.Is(err, sql.ErrConnDone), strings.Contains(err.Error(), "database is closed"):
		return fmt.Errorf("%s: %w", op, common.ErrEngineClosed)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, common.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, common.ErrStorageUnavailable, err)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, common.ErrConstraintViolation):
		return "constraint"
	case errors.Is(err, common.ErrNotFound):
		return "not_found"
	case errors.Is(err, common.ErrEngineClosed):
		return "closed"
	case errors.Is(err, common.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, common.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unavailable"
	}
}
