package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-todo-server/internal/dbx"
)

// PostgresRepository implements Repo over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repo = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING completed, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, task.ID, task.UserID, task.Title).
		Scan(&task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*Task, error) {
	query := `
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	task := &Task{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// List reads the count and the page inside one read-only transaction when
// the handle allows it, so the reported total always matches the rows.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter ListFilter) ([]*Task, int, error) {
	starter, ok := r.db.(dbx.TxStarter)
	if !ok {
		return listPage(ctx, r.db, userID, filter)
	}

	var list []*Task
	var total int
	err := dbx.WithTx(ctx, starter, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, total, err = listPage(ctx, tx, userID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func listPage(ctx context.Context, db dbx.DBTX, userID string, filter ListFilter) ([]*Task, int, error) {
	where, args := buildListWhere(userID, filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + where
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := make([]*Task, 0)
	for rows.Next() {
		task := &Task{}
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Completed, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		list = append(list, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return list, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *Task) error {
	query := `
		UPDATE tasks
		SET title = $1, completed = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, task.Title, task.Completed, task.ID, task.UserID).
		Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func buildListWhere(userID string, filter ListFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	switch filter.Status {
	case StatusCompleted:
		conditions = append(conditions, "completed = TRUE")
	case StatusPending:
		conditions = append(conditions, "completed = FALSE")
	}

	if filter.Search != "" {
		args = append(args, likeEscaper.Replace(filter.Search))
		conditions = append(conditions, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// likeEscaper neutralizes LIKE metacharacters so the search term is always
// a literal substring match, the same as the in-memory repository.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
