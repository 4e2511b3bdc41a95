package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"threadline/internal/metrics"
	"threadline/internal/model"
)

const (
	threadColumns = `t.id, t.author_id, t.parent_id, t.text, t.children, t.created_at`
	authorColumns = `u.external_id AS "author.external_id", u.name AS "author.name", u.image AS "author.image"`
)

// threadRow scans a threads row; children arrive as a Postgres BIGINT[].
type threadRow struct {
	ID        int64         `db:"id"`
	AuthorID  int64         `db:"author_id"`
	ParentID  *int64        `db:"parent_id"`
	Text      string        `db:"text"`
	Children  pq.Int64Array `db:"children"`
	CreatedAt time.Time     `db:"created_at"`
}

// threadAuthorRow is a thread joined with its author's projection.
type threadAuthorRow struct {
	threadRow
	AuthorExternalID string `db:"author.external_id"`
	AuthorName       string `db:"author.name"`
	AuthorImage      string `db:"author.image"`
}

func (row threadRow) toModel() model.Thread {
	children := make([]int64, len(row.Children))
	copy(children, row.Children)
	return model.Thread{
		ID:        row.ID,
		AuthorID:  row.AuthorID,
		ParentID:  row.ParentID,
		Text:      row.Text,
		ChildIDs:  children,
		CreatedAt: row.CreatedAt,
	}
}

func (row threadAuthorRow) toModel() model.Thread {
	t := row.threadRow.toModel()
	t.Author = &model.UserSummary{
		ID:         row.AuthorID,
		ExternalID: row.AuthorExternalID,
		Name:       row.AuthorName,
		Image:      row.AuthorImage,
	}
	return t
}

type threadRepository struct {
	db *sqlx.DB
}

func NewThreadRepository(db *sqlx.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// Create inserts a top-level thread.
func (r *threadRepository) Create(ctx context.Context, authorID int64, text string) (*model.Thread, error) {
	defer metrics.TrackQuery("create", "threads")()

	query := `
		INSERT INTO threads (author_id, text)
		VALUES ($1, $2)
		RETURNING id, author_id, parent_id, text, children, created_at
	`
	var row threadRow
	if err := r.db.GetContext(ctx, &row, query, authorID, text); err != nil {
		return nil, fmt.Errorf("insert thread: %w", err)
	}

	t := row.toModel()
	return &t, nil
}

// CreateReply locks the parent, inserts the reply and appends it to the parent's
// children in one transaction, so a listed child always exists with a matching parent_id.
func (r *threadRepository) CreateReply(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error) {
	defer metrics.TrackQuery("create_reply", "threads")()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int64
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM threads WHERE id = $1 FOR UPDATE`, parentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock parent thread: %w", err)
	}

	var row threadRow
	err = tx.GetContext(ctx, &row, `
		INSERT INTO threads (author_id, parent_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, parent_id, text, children, created_at
	`, authorID, parentID, text)
	if err != nil {
		return nil, fmt.Errorf("insert reply: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE threads SET children = array_append(children, $1) WHERE id = $2`, row.ID, parentID)
	if err != nil {
		return nil, fmt.Errorf("append child: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	t := row.toModel()
	return &t, nil
}

// GetByID retrieves a single thread with its author.
func (r *threadRepository) GetByID(ctx context.Context, id int64) (*model.Thread, error) {
	defer metrics.TrackQuery("get_by_id", "threads")()

	query := `
		SELECT ` + threadColumns + `, ` + authorColumns + `
		FROM threads t
		JOIN users u ON u.id = t.author_id
		WHERE t.id = $1
	`
	var row threadAuthorRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}

	t := row.toModel()
	return &t, nil
}

func (r *threadRepository) GetByAuthor(ctx context.Context, authorID int64) ([]model.Thread, error) {
	defer metrics.TrackQuery("get_by_author", "threads")()

	query := `
		SELECT ` + threadColumns + `
		FROM threads t
		WHERE t.author_id = $1
		ORDER BY t.created_at ASC, t.id ASC
	`
	return r.selectThreads(ctx, query, authorID)
}

func (r *threadRepository) GetTopLevelByAuthor(ctx context.Context, authorID int64) ([]model.Thread, error) {
	defer metrics.TrackQuery("get_top_level_by_author", "threads")()

	query := `
		SELECT ` + threadColumns + `
		FROM threads t
		WHERE t.author_id = $1 AND t.parent_id IS NULL
		ORDER BY t.created_at ASC, t.id ASC
	`
	return r.selectThreads(ctx, query, authorID)
}

func (r *threadRepository) GetByIDsWithAuthor(ctx context.Context, ids []int64, excludeAuthorID int64) ([]model.Thread, error) {
	if len(ids) == 0 {
		return []model.Thread{}, nil
	}

	defer metrics.TrackQuery("get_by_ids_with_author", "threads")()

	query := `
		SELECT ` + threadColumns + `, ` + authorColumns + `
		FROM threads t
		JOIN users u ON u.id = t.author_id
		WHERE t.id = ANY($1)
	`
	args := []interface{}{pq.Array(ids)}
	if excludeAuthorID != 0 {
		query += ` AND t.author_id <> $2`
		args = append(args, excludeAuthorID)
	}
	query += ` ORDER BY t.created_at ASC, t.id ASC`

	var rows []threadAuthorRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get threads by ids: %w", err)
	}

	threads := make([]model.Thread, len(rows))
	for i, row := range rows {
		threads[i] = row.toModel()
	}
	return threads, nil
}

func (r *threadRepository) ListTopLevel(ctx context.Context, offset, limit int) ([]model.Thread, int, error) {
	defer metrics.TrackQuery("list_top_level", "threads")()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM threads WHERE parent_id IS NULL`); err != nil {
		return nil, 0, fmt.Errorf("count threads: %w", err)
	}

	query := `
		SELECT ` + threadColumns + `, ` + authorColumns + `
		FROM threads t
		JOIN users u ON u.id = t.author_id
		WHERE t.parent_id IS NULL
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1 OFFSET $2
	`
	var rows []threadAuthorRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list threads: %w", err)
	}

	threads := make([]model.Thread, len(rows))
	for i, row := range rows {
		threads[i] = row.toModel()
	}
	return threads, total, nil
}

func (r *threadRepository) selectThreads(ctx context.Context, query string, args ...interface{}) ([]model.Thread, error) {
	var rows []threadRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get threads: %w", err)
	}

	threads := make([]model.Thread, len(rows))
	for i, row := range rows {
		threads[i] = row.toModel()
	}
	return threads, nil
}
