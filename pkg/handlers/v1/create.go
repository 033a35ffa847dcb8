package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const createTaskName = "createTask"

var requiredFields = []string{
	domain.AttributeTitle,
	domain.AttributeStatus,
	domain.AttributeDescription,
}

type taskCreated struct {
	TaskID  string `logevent:"task_id"`
	Message string `logevent:"message,default=task-created"`
}

// CreateTask validates a new task and stores it under a generated
// identifier.
type CreateTask struct {
	LogFn  domain.LogFn
	StatFn domain.StatFn
	Store  domain.TaskStore
	// NewID generates task identifiers. The default is a random UUID.
	NewID func() string
}

// Handle is the Lambda entry point.
func (h *CreateTask) Handle(ctx context.Context, in events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	task, err := h.create(ctx, in)
	if err != nil {
		return failure(ctx, h.LogFn, h.StatFn, createTaskName, "Error saving task", err), nil
	}
	h.LogFn(ctx).Info(taskCreated{TaskID: task.TaskID})
	return respond(ctx, h.LogFn, h.StatFn, createTaskName, http.StatusCreated, task), nil
}

func (h *CreateTask) create(ctx context.Context, in events.APIGatewayProxyRequest) (domain.Task, error) {
	fields, err := decodeObject(in)
	if err != nil {
		return domain.Task{}, domain.ValidationError{Reason: "Error parsing request body"}
	}
	missing := make([]string, 0, len(requiredFields))
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.Task{}, domain.ValidationError{
			Reason: fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
		}
	}
	values := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		value, err := decodeString(name, fields[name])
		if err != nil {
			return domain.Task{}, err
		}
		values[name] = value
	}

	newID := h.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	task := domain.Task{
		TaskID:      newID(),
		Title:       values[domain.AttributeTitle],
		Status:      values[domain.AttributeStatus],
		Description: values[domain.AttributeDescription],
	}
	if err := h.Store.Put(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}
