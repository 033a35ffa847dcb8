package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-lambda-go/events"
)

const updateTaskName = "updateTask"

var updatableFields = []string{
	domain.AttributeTitle,
	domain.AttributeStatus,
	domain.AttributeDescription,
}

type taskUpdated struct {
	TaskID  string `logevent:"task_id"`
	Fields  string `logevent:"fields"`
	Message string `logevent:"message,default=task-updated"`
}

// UpdateTask applies a partial update to an existing task and returns the
// complete record as stored after the write.
type UpdateTask struct {
	LogFn  domain.LogFn
	StatFn domain.StatFn
	Store  domain.TaskStore
}

// Handle is the Lambda entry point.
func (h *UpdateTask) Handle(ctx context.Context, in events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	task, err := h.update(ctx, in)
	if err != nil {
		return failure(ctx, h.LogFn, h.StatFn, updateTaskName, "Error updating task", err), nil
	}
	return respond(ctx, h.LogFn, h.StatFn, updateTaskName, http.StatusOK, task), nil
}

func (h *UpdateTask) update(ctx context.Context, in events.APIGatewayProxyRequest) (domain.Task, error) {
	taskID, err := taskIDFromPath(in)
	if err != nil {
		return domain.Task{}, err
	}
	fields, err := decodeObject(in)
	if err != nil {
		return domain.Task{}, domain.ValidationError{Reason: "Invalid JSON in request body"}
	}
	changes := make(domain.TaskChanges, len(updatableFields))
	supplied := make([]string, 0, len(updatableFields))
	for _, name := range updatableFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		value, err := decodeString(name, raw)
		if err != nil {
			return domain.Task{}, err
		}
		changes[name] = value
		supplied = append(supplied, name)
	}
	if len(changes) == 0 {
		return domain.Task{}, domain.ValidationError{Reason: "No updatable fields supplied"}
	}

	if err := h.Store.Update(ctx, taskID, changes); err != nil {
		return domain.Task{}, err
	}
	h.LogFn(ctx).Info(taskUpdated{TaskID: taskID, Fields: strings.Join(supplied, ",")})
	return h.Store.Get(ctx, taskID)
}
