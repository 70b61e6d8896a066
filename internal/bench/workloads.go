package bench

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result stores the outcome of a workload.
type Result struct {
	Name     string
	Duration time.Duration
	Reads    uint64
	Writes   uint64
}

// Workloads holds the parameters of every workload.
type Workloads struct {
	Goroutines int

	SimpleUsers int

	ComplexUsers       int
	ArticlesPerUser    int
	CommentsPerArticle int

	ManyUsers  int
	QueryTimes int

	LargeUsers int
	LargeBytes int
}

// NewWorkloads derives the size of every workload from a number of users.
func NewWorkloads(users int, goroutines int) Workloads {
	return Workloads{
		Goroutines:         goroutines,
		SimpleUsers:        users,
		ComplexUsers:       max(users/50, 1),
		ArticlesPerUser:    10,
		CommentsPerArticle: 5,
		ManyUsers:          max(users/10, 1),
		QueryTimes:         100,
		LargeUsers:         max(users/10, 1),
		LargeBytes:         10_000,
	}
}

type counters struct {
	reads  atomic.Uint64
	writes atomic.Uint64
}

func (c *counters) result(name string, start time.Time) Result {
	return Result{
		Name:     name,
		Duration: time.Since(start),
		Reads:    c.reads.Load(),
		Writes:   c.writes.Load(),
	}
}

// runner runs the workloads against one database.
type runner struct {
	db  *sql.DB
	w   Workloads
	out io.Writer
}

// parallel calls fn for 0..n-1 on at most w.Goroutines goroutines, ticking a
// progress bar per call. It stops at the first error.
func (r *runner) parallel(ctx context.Context, description string, n int, fn func(ctx context.Context, i int) error) error {
	bar := newBar(r.out, description, n)
	defer bar.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.w.Goroutines)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := fn(gctx, i); err != nil {
				return err
			}
			bar.Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *runner) insertUser(ctx context.Context, c *counters, email string) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (created, email, active) VALUES (?, ?, ?)",
		time.Now().Unix(), email, true,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	c.writes.Add(uint64(affected))
	return nil
}

func (r *runner) readUsers(ctx context.Context, c *counters) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, created, email, active FROM users ORDER BY id",
	)
	if err != nil {
		return fmt.Errorf("error when querying: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, created int64
		var email string
		var active bool
		if err := rows.Scan(&id, &created, &email, &active); err != nil {
			return fmt.Errorf("error when scanning: %w", err)
		}
		c.reads.Add(1)
	}
	return rows.Err()
}

// simple inserts X users and then queries all of them in a single query.
func (r *runner) simple(ctx context.Context) (Result, error) {
	start := time.Now()
	var c counters

	err := r.parallel(ctx, fmt.Sprintf("Inserting %d users", r.w.SimpleUsers), r.w.SimpleUsers,
		func(ctx context.Context, i int) error {
			return r.insertUser(ctx, &c, fmt.Sprintf("user%d@example.com", i))
		})
	if err != nil {
		return Result{}, fmt.Errorf("error when inserting: %w", err)
	}

	if err := r.readUsers(ctx, &c); err != nil {
		return Result{}, err
	}
	return c.result("Simple", start), nil
}

// complex inserts X users, each with Y articles and each article with Z
// comments, then reads everything back with a JOIN query.
func (r *runner) complex(ctx context.Context) (Result, error) {
	start := time.Now()
	var c counters

	err := r.parallel(ctx, fmt.Sprintf("Inserting %d users", r.w.ComplexUsers), r.w.ComplexUsers,
		func(ctx context.Context, i int) error {
			return r.insertUser(ctx, &c, fmt.Sprintf("user%d@example.com", i))
		})
	if err != nil {
		return Result{}, fmt.Errorf("error inserting users: %w", err)
	}

	totalArticles := r.w.ComplexUsers * r.w.ArticlesPerUser
	err = r.parallel(ctx, fmt.Sprintf("Inserting %d articles", totalArticles), totalArticles,
		func(ctx context.Context, i int) error {
			userID := (i % r.w.ComplexUsers) + 1
			return r.insert(ctx, &c,
				"INSERT INTO articles (created, userId, text) VALUES (?, ?, ?)",
				time.Now().Unix(), userID, fmt.Sprintf("article for user %d", userID),
			)
		})
	if err != nil {
		return Result{}, fmt.Errorf("error inserting articles: %w", err)
	}

	totalComments := totalArticles * r.w.CommentsPerArticle
	err = r.parallel(ctx, fmt.Sprintf("Inserting %d comments", totalComments), totalComments,
		func(ctx context.Context, i int) error {
			articleID := (i % totalArticles) + 1
			return r.insert(ctx, &c,
				"INSERT INTO comments (created, articleId, text) VALUES (?, ?, ?)",
				time.Now().Unix(), articleID, "comment",
			)
		})
	if err != nil {
		return Result{}, fmt.Errorf("error inserting comments: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
		users.id, users.created, users.email, users.active,
		articles.id, articles.created, articles.userId, articles.text,
		comments.id, comments.created, comments.articleId, comments.text
		FROM users
		JOIN articles ON articles.userId = users.id
		JOIN comments ON comments.articleId = articles.id
		ORDER BY users.created, articles.created, comments.created
	`)
	if err != nil {
		return Result{}, fmt.Errorf("error when querying: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID, created, articleID, articleCreated, articleUserID int64
		var commentID, commentCreated, commentArticleID int64
		var email, articleText, commentText string
		var active bool

		err = rows.Scan(
			&userID, &created, &email, &active,
			&articleID, &articleCreated, &articleUserID, &articleText,
			&commentID, &commentCreated, &commentArticleID, &commentText,
		)
		if err != nil {
			return Result{}, fmt.Errorf("error when scanning: %w", err)
		}
		c.reads.Add(1)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	return c.result("Complex", start), nil
}

func (r *runner) insert(ctx context.Context, c *counters, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	c.writes.Add(uint64(affected))
	return nil
}

// many inserts X users in a single transaction through one prepared
// statement and then queries all users Y times. This simulates a read-heavy
// workload.
func (r *runner) many(ctx context.Context) (Result, error) {
	start := time.Now()
	var c counters

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO users (created, email, active) VALUES (?, ?, ?)",
	)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = stmt.Close() }()

	err = r.parallel(ctx, fmt.Sprintf("Inserting %d users", r.w.ManyUsers), r.w.ManyUsers,
		func(ctx context.Context, i int) error {
			res, err := stmt.ExecContext(ctx, time.Now().Unix(), fmt.Sprintf("user%d@example.com", i), true)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			c.writes.Add(uint64(affected))
			return nil
		})
	if err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, err
	}

	err = r.parallel(ctx, fmt.Sprintf("Querying all users %d times", r.w.QueryTimes), r.w.QueryTimes,
		func(ctx context.Context, _ int) error {
			return r.readUsers(ctx, &c)
		})
	if err != nil {
		return Result{}, err
	}

	return c.result("Many", start), nil
}

// large inserts X users with Y bytes of content and then queries all of them
// in a single query.
func (r *runner) large(ctx context.Context) (Result, error) {
	start := time.Now()
	var c counters

	email := strings.Repeat("Y", r.w.LargeBytes)
	err := r.parallel(ctx, fmt.Sprintf("Inserting %d large users", r.w.LargeUsers), r.w.LargeUsers,
		func(ctx context.Context, _ int) error {
			return r.insertUser(ctx, &c, email)
		})
	if err != nil {
		return Result{}, fmt.Errorf("error when inserting: %w", err)
	}

	if err := r.readUsers(ctx, &c); err != nil {
		return Result{}, err
	}
	return c.result("Large", start), nil
}

// Benchmark runs every workload against db, recreating the schema before
// each one.
func Benchmark(ctx context.Context, db *sql.DB, w Workloads, out io.Writer) ([]Result, error) {
	r := &runner{db: db, w: w, out: out}
	workloads := []func(context.Context) (Result, error){
		r.simple,
		r.complex,
		r.many,
		r.large,
	}

	var results []Result
	for _, workload := range workloads {
		if err := recreateSchema(ctx, db); err != nil {
			return nil, err
		}

		res, err := workload(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, nil
}
