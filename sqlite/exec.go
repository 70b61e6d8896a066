package sqlite

// ExecuteOption configures Execute and Collect.
type ExecuteOption func(*executeOptions)

type executeOptions struct {
	limit    int
	hasLimit bool
}

// WithLimit stops the execution once the row at index n has been handled,
// so at most n+1 rows reach the handler and WithLimit(0) handles only the
// first row. A negative n is treated as zero.
func WithLimit(n int) ExecuteOption {
	return func(o *executeOptions) {
		if n < 0 {
			n = 0
		}
		o.limit = n
		o.hasLimit = true
	}
}

// Execute steps stmt to completion, calling fn with a view of every row
// produced. It stops early when fn returns an error, which is returned as
// is, or when the WithLimit bound is reached. The Row passed to fn must not
// be kept after fn returns.
func (conn *Conn) Execute(stmt *Stmt, fn func(*Row) error, opts ...ExecuteOption) error {
	if err := conn.checkOpen(OpStep); err != nil {
		return err
	}
	if stmt.conn != conn {
		return misuse(OpStep, ErrForeignStatement, stmt.query)
	}

	var o executeOptions
	for _, opt := range opts {
		opt(&o)
	}

	for index := 0; ; index++ {
		hasRow, err := stmt.Step()
		if err != nil {
			return err
		}
		if !hasRow {
			return nil
		}

		row := &Row{stmt: stmt, index: index, gen: stmt.gen}
		if err := fn(row); err != nil {
			return err
		}

		if o.hasLimit && index >= o.limit {
			return nil
		}
	}
}

// Collect executes stmt and gathers the result of fn for every row.
func Collect[T any](conn *Conn, stmt *Stmt, fn func(*Row) (T, error), opts ...ExecuteOption) ([]T, error) {
	var out []T
	err := conn.Execute(stmt, func(row *Row) error {
		item, err := fn(row)
		if err != nil {
			return err
		}
		out = append(out, item)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Query prepares query, binds args to its parameters in order, and collects
// fn over every row. The statement is finalized before Query returns.
func Query[T any](conn *Conn, query string, fn func(*Row) (T, error), args ...Value) ([]T, error) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Finalize()

	if err := stmt.BindAll(args...); err != nil {
		return nil, err
	}
	return Collect(conn, stmt, fn)
}
