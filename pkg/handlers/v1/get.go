package v1

import (
	"context"
	"net/http"

	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-lambda-go/events"
)

const getTasksName = "getTasks"

type tasksListed struct {
	Count   int    `logevent:"count"`
	Message string `logevent:"message,default=tasks-listed"`
}

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// GetTasks returns every stored task.
type GetTasks struct {
	LogFn  domain.LogFn
	StatFn domain.StatFn
	Store  domain.TaskStore
}

// Handle is the Lambda entry point. The request content is not used.
func (h *GetTasks) Handle(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tasks, err := h.Store.Scan(ctx)
	if err != nil {
		return failure(ctx, h.LogFn, h.StatFn, getTasksName, "Error retrieving tasks", err), nil
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	h.LogFn(ctx).Info(tasksListed{Count: len(tasks)})
	return respond(ctx, h.LogFn, h.StatFn, getTasksName, http.StatusOK, tasksResponse{Tasks: tasks}), nil
}
