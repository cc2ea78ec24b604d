package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/taskkeeper-server/internal/model"
)

var _ model.TodoStore = (*TodoRepository)(nil)

const todoColumns = `id, owner_id, text, description, completed, priority, category, due_date, created_at, updated_at`

type TodoRepository struct {
	db *Connection
}

func NewTodoRepository(db *Connection) *TodoRepository {
	return &TodoRepository{
		db: db,
	}
}

func (r *TodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `INSERT INTO todos (` + todoColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + todoColumns

	saved, err := scanTodo(r.db.QueryRow(ctx, query,
		todo.ID, todo.OwnerID, todo.Text, todo.Description, todo.Completed,
		string(todo.Priority), string(todo.Category), todo.DueDate,
		todo.CreatedAt, todo.UpdatedAt,
	))
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", mapStoreErr(err))
	}

	return saved, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	todo, err := scanTodo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Todo{}, model.ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo by id: %w", mapStoreErr(err))
	}

	return todo, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `UPDATE todos
			  SET text = $2, description = $3, completed = $4, priority = $5,
			      category = $6, due_date = $7, updated_at = $8
			  WHERE id = $1
			  RETURNING ` + todoColumns

	saved, err := scanTodo(r.db.QueryRow(ctx, query,
		todo.ID, todo.Text, todo.Description, todo.Completed,
		string(todo.Priority), string(todo.Category), todo.DueDate, todo.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Todo{}, model.ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", mapStoreErr(err))
	}

	return saved, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM todos WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", mapStoreErr(err))
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) List(ctx context.Context, ownerID uuid.UUID, query model.ListQuery) ([]model.Todo, error) {
	sql, args := buildListSQL(ownerID, query)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", mapStoreErr(err))
	}
	defer rows.Close()

	return collectTodos(rows)
}

func (r *TodoRepository) ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + `
			  FROM todos
			  WHERE owner_id = $1
			    AND ((created_at >= $2 AND created_at <= $3) OR (due_date >= $2 AND due_date <= $3))
			  ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos by date range: %w", mapStoreErr(err))
	}
	defer rows.Close()

	return collectTodos(rows)
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	const query = `DELETE FROM todos WHERE owner_id = $1`
	cmd, err := r.db.Exec(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos by owner: %w", mapStoreErr(err))
	}
	return cmd.RowsAffected(), nil
}

// buildListSQL translates a declarative ListQuery into SQL. The owner
// scope is always the first predicate; filters only ever narrow the
// result within it.
func buildListSQL(ownerID uuid.UUID, q model.ListQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + todoColumns + ` FROM todos WHERE owner_id = $1`)
	args := []any{ownerID}

	if q.Completed != nil {
		args = append(args, *q.Completed)
		fmt.Fprintf(&sb, ` AND completed = $%d`, len(args))
	}
	if q.Priority != nil {
		args = append(args, string(*q.Priority))
		fmt.Fprintf(&sb, ` AND priority = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		fmt.Fprintf(&sb, ` AND (text ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	sb.WriteString(orderClause(q.Sort))

	return sb.String(), args
}

func orderClause(sort model.SortKey) string {
	switch sort {
	case model.SortOldest:
		return ` ORDER BY created_at ASC`
	case model.SortPriority:
		return ` ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC, created_at DESC`
	case model.SortDueDate:
		return ` ORDER BY due_date ASC NULLS LAST, created_at DESC`
	case model.SortAlphabetical:
		return ` ORDER BY text ASC`
	default:
		return ` ORDER BY created_at DESC`
	}
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text so
// the filter stays a literal substring match.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanTodo(row pgx.Row) (model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID, &todo.OwnerID, &todo.Text, &todo.Description, &todo.Completed,
		&todo.Priority, &todo.Category, &todo.DueDate, &todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

func collectTodos(rows pgx.Rows) ([]model.Todo, error) {
	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err)
	}

	return todos, nil
}
