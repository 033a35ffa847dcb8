package domain

import (
	"context"
)

// Attribute names of a Task record. These are used both as JSON keys
// and as the attribute names of the stored record.
const (
	AttributeTaskID      = "taskId"
	AttributeTitle       = "title"
	AttributeStatus      = "status"
	AttributeDescription = "description"
)

// Task is the single entity managed by the service.
type Task struct {
	TaskID      string `json:"taskId" dynamodbav:"taskId"`
	Title       string `json:"title" dynamodbav:"title"`
	Status      string `json:"status" dynamodbav:"status"`
	Description string `json:"description" dynamodbav:"description"`
}

// TaskChanges maps attribute names to their new values for a partial
// update. Only the attributes present in the map are modified.
type TaskChanges map[string]string

// TaskStore is the persistence layer for Task records keyed by TaskID.
//
// Implementations must return a NotFoundError from Get, Update, and Delete
// when no record exists for the given identifier and must never create a
// record as a side effect of Update. Any other failure of the underlying
// store is reported as a StoreError.
type TaskStore interface {
	// Put writes the complete record.
	Put(ctx context.Context, task Task) error
	// Get reads a single record.
	Get(ctx context.Context, taskID string) (Task, error)
	// Scan reads every record in the store.
	Scan(ctx context.Context) ([]Task, error)
	// Update applies the changes to an existing record.
	Update(ctx context.Context, taskID string, changes TaskChanges) error
	// Delete removes an existing record.
	Delete(ctx context.Context, taskID string) error
}
