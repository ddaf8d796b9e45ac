package postgres

import (
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck-api/internal/store"
)

// taskWithCategorySelect joins each task with the display view of its
// category. The join is LEFT so uncategorized tasks still appear.
const taskWithCategorySelect = `
	SELECT t.id, t.user_id, t.category_id, t.title, t.description, t.status,
		t.priority, t.due_date, t.tags, t.estimated_hours, t.completed_at,
		t.created_at, t.updated_at, c.name, c.color
	FROM tasks t
	LEFT JOIN categories c ON c.id = t.category_id`

// taskSortColumns maps whitelisted API-level sort field names to their ORDER
// BY expressions. Priority sorts by rank, not lexicographically.
var taskSortColumns = map[string]string{
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"dueDate":   "t.due_date",
	"status":    "t.status",
	"title":     "t.title",
	"priority":  "CASE t.priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 END",
}

// buildTaskPredicates translates the list params into a WHERE clause and its
// arguments, with placeholders numbered from $1. Every supplied filter is
// conjoined; the status list is the only membership test. The user scope is
// always the first predicate.
func buildTaskPredicates(params store.TaskListParams) (string, []any) {
	preds := []string{"t.user_id = $1"}
	args := []any{params.UserID}

	next := func() int { return len(args) + 1 }

	if len(params.Statuses) > 0 {
		placeholders := make([]string, len(params.Statuses))
		for i, status := range params.Statuses {
			placeholders[i] = fmt.Sprintf("$%d", next())
			args = append(args, status)
		}
		preds = append(preds,
			fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ", ")))
	}

	if params.Priority != nil {
		preds = append(preds, fmt.Sprintf("t.priority = $%d", next()))
		args = append(args, *params.Priority)
	}

	if params.CategoryID != nil {
		preds = append(preds, fmt.Sprintf("t.category_id = $%d", next()))
		args = append(args, *params.CategoryID)
	}

	if params.DueAfter != nil {
		preds = append(preds, fmt.Sprintf("t.due_date >= $%d", next()))
		args = append(args, *params.DueAfter)
	}
	if params.DueBefore != nil {
		preds = append(preds, fmt.Sprintf("t.due_date <= $%d", next()))
		args = append(args, *params.DueBefore)
	}

	if params.Search != "" {
		preds = append(preds, fmt.Sprintf(
			"to_tsvector('english', t.title || ' ' || t.description) @@ plainto_tsquery('english', $%d)",
			next()))
		args = append(args, params.Search)
	}

	return strings.Join(preds, " AND "), args
}

// taskSortExpression returns the ORDER BY expression for a whitelisted sort
// field, or the default ordering (newest first) when no field is given.
// Callers validate the field with store.IsSortableTaskField before it gets
// here; an unknown field falls back to the default rather than reaching the
// database.
func taskSortExpression(field string, desc bool) string {
	column, ok := taskSortColumns[field]
	if !ok {
		return "t.created_at DESC"
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskWithCategory(row rowScanner) (*store.TaskWithCategory, error) {
	var task store.TaskWithCategory
	var tags []byte
	err := row.Scan(
		&task.ID, &task.UserID, &task.CategoryID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.DueDate, &tags,
		&task.EstimatedHours, &task.CompletedAt, &task.CreatedAt, &task.UpdatedAt,
		&task.CategoryName, &task.CategoryColor,
	)
	if err != nil {
		return nil, err
	}

	if task.Tags, err = unmarshalTags(tags); err != nil {
		return nil, err
	}
	return &task, nil
}
