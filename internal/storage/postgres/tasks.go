package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskboard/internal/models"
)

const taskColumns = `
id,
title,
description,
status,
priority,
type,
start_date_time,
end_date_time,
created_by,
assigned_to,
created_at,
updated_at
`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Type,
		&task.StartDateTime,
		&task.EndDateTime,
		&task.CreatedBy,
		&task.AssignedTo,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return task, nil
}

func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (db *DB) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   status,
                   priority,
                   type,
                   start_date_time,
                   end_date_time,
                   created_by,
                   assigned_to,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := db.pool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Type,
		task.StartDateTime,
		task.EndDateTime,
		task.CreatedBy,
		task.AssignedTo,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return translate(err)
}

func (db *DB) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	const selectTaskByIDQuery = `SELECT` + taskColumns + `FROM tasks WHERE id = $1`
	return scanTask(db.pool.QueryRow(ctx, selectTaskByIDQuery, id))
}

func (db *DB) ListTasksByParticipant(ctx context.Context, userID string) ([]*models.Task, error) {
	const selectTasksByParticipantQuery = `SELECT` + taskColumns + `
FROM tasks
WHERE created_by = $1 OR assigned_to = $1
ORDER BY start_date_time
`
	return db.queryTasks(ctx, selectTasksByParticipantQuery, userID)
}

func (db *DB) ListAllTasks(ctx context.Context) ([]*models.Task, error) {
	const selectAllTasksQuery = `SELECT` + taskColumns + `
FROM tasks
ORDER BY created_at
`
	return db.queryTasks(ctx, selectAllTasksQuery)
}

func (db *DB) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    priority = $4,
    type = $5,
    start_date_time = $6,
    end_date_time = $7,
    assigned_to = $8,
    updated_at = $9
WHERE id = $10
`
	tag, err := db.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Type,
		task.StartDateTime,
		task.EndDateTime,
		task.AssignedTo,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}

func (db *DB) DeleteTask(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := db.pool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}

func (db *DB) DeleteTasksByCreator(ctx context.Context, userID string) (int64, error) {
	const deleteTasksByCreatorQuery = `
DELETE FROM tasks
WHERE created_by = $1
`
	tag, err := db.pool.Exec(ctx, deleteTasksByCreatorQuery, userID)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

func (db *DB) ClearAssignee(ctx context.Context, userID string) (int64, error) {
	const clearAssigneeQuery = `
UPDATE tasks
SET assigned_to = NULL,
    updated_at = now()
WHERE assigned_to = $1
`
	tag, err := db.pool.Exec(ctx, clearAssigneeQuery, userID)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}
