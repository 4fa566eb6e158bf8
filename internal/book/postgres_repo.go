package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookclub/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = `
	b.external_id, b.title, b.author, b.publisher, b.description, b.category, b.cover_url,
	b.like_count, COALESCE(rc.review_count, 0), b.created_at, b.updated_at`

const reviewCountJoin = `
	LEFT JOIN (SELECT book_id, COUNT(*) AS review_count FROM reviews GROUP BY book_id) rc
	ON rc.book_id = b.external_id`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ExternalID, &b.Title, &b.Author, &b.Publisher, &b.Description, &b.Category, &b.Cover,
		&b.LikeCount, &b.ReviewCount, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Upsert inserts the book or refreshes its descriptive fields. The derived
// counts are never written by this path.
func (r *PostgresRepo) Upsert(ctx context.Context, b Book) (Book, error) {
	const upsertSQL = `
		INSERT INTO books (external_id, title, author, publisher, description, category, cover_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			publisher = EXCLUDED.publisher,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			cover_url = EXCLUDED.cover_url,
			updated_at = NOW()`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, upsertSQL,
		b.ExternalID, b.Title, b.Author, b.Publisher, b.Description, b.Category, b.Cover,
	)
	if err != nil {
		return Book{}, fmt.Errorf("upsert book: %w", err)
	}
	return r.Get(ctx, b.ExternalID)
}

func (r *PostgresRepo) Get(ctx context.Context, externalID string) (Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM books b
		%s
		WHERE b.external_id = $1
		LIMIT 1`, bookColumns, reviewCountJoin)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, apperr.NotFound("book not found")
		}
		return Book{}, err
	}
	return b, nil
}

// List returns at most limit stored books, newest first, externalID breaking
// ties so pages are stable.
func (r *PostgresRepo) List(ctx context.Context, limit int, f Filters) ([]Book, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		clauses = append(clauses, fmt.Sprintf("b.%s ILIKE $%d", column, argn))
		args = append(args, "%"+value+"%")
		argn++
	}
	addLike("title", f.Title)
	addLike("author", f.Author)
	addLike("publisher", f.Publisher)
	addLike("description", f.Description)
	addLike("category", f.Category)

	query := fmt.Sprintf(`
		SELECT %s
		FROM books b
		%s
		WHERE %s
		ORDER BY b.created_at DESC, b.external_id ASC
		LIMIT $%d`, bookColumns, reviewCountJoin, strings.Join(clauses, " AND "), argn)
	args = append(args, limit)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountsByExternalIDs returns the derived counts for every locally known id
// in externalIDs; unknown ids are simply absent from the result.
func (r *PostgresRepo) CountsByExternalIDs(ctx context.Context, externalIDs []string) (map[string]Counts, error) {
	if len(externalIDs) == 0 {
		return map[string]Counts{}, nil
	}

	const query = `
		SELECT b.external_id, b.like_count, COALESCE(rc.review_count, 0)
		FROM books b
		LEFT JOIN (SELECT book_id, COUNT(*) AS review_count FROM reviews GROUP BY book_id) rc
			ON rc.book_id = b.external_id
		WHERE b.external_id = ANY($1)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, externalIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]Counts, len(externalIDs))
	for rows.Next() {
		var id string
		var c Counts
		if err := rows.Scan(&id, &c.LikeCount, &c.ReviewCount); err != nil {
			return nil, err
		}
		counts[id] = c
	}
	return counts, rows.Err()
}

// AddLike records an active like relation and increments the book's like
// count in the same transaction. Liking an already-liked book is a no-op:
// the uniqueness constraint swallows the insert and the count is untouched.
func (r *PostgresRepo) AddLike(ctx context.Context, externalID, username string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	const insertSQL = `
		INSERT INTO book_likes (username, book_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (username, book_id) DO NOTHING`

	tag, err := tx.Exec(timeoutCtx, insertSQL, username, externalID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperr.NotFound("book not found")
		}
		return fmt.Errorf("insert like: %w", err)
	}

	if tag.RowsAffected() == 1 {
		// SQL-side increment so concurrent likes from different users
		// serialize on the row instead of losing updates.
		const incrementSQL = `UPDATE books SET like_count = like_count + 1 WHERE external_id = $1`
		if _, err := tx.Exec(timeoutCtx, incrementSQL, externalID); err != nil {
			return fmt.Errorf("increment like count: %w", err)
		}
	}

	return tx.Commit(timeoutCtx)
}

// RemoveLike deletes the active like relation and decrements the like count
// in the same transaction. With no relation to remove it reports
// no-active-like and changes nothing.
func (r *PostgresRepo) RemoveLike(ctx context.Context, externalID, username string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	const deleteSQL = `DELETE FROM book_likes WHERE username = $1 AND book_id = $2`
	tag, err := tx.Exec(timeoutCtx, deleteSQL, username, externalID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NoActiveLike("no active like for book")
	}

	const decrementSQL = `UPDATE books SET like_count = GREATEST(like_count - 1, 0) WHERE external_id = $1`
	if _, err := tx.Exec(timeoutCtx, decrementSQL, externalID); err != nil {
		return fmt.Errorf("decrement like count: %w", err)
	}

	return tx.Commit(timeoutCtx)
}
