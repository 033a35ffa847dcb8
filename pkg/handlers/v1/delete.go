package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-lambda-go/events"
)

const deleteTaskName = "deleteTask"

type taskDeleted struct {
	TaskID  string `logevent:"task_id"`
	Message string `logevent:"message,default=task-deleted"`
}

// DeleteTask removes an existing task.
type DeleteTask struct {
	LogFn  domain.LogFn
	StatFn domain.StatFn
	Store  domain.TaskStore
}

// Handle is the Lambda entry point.
func (h *DeleteTask) Handle(ctx context.Context, in events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	taskID, err := taskIDFromPath(in)
	if err == nil {
		err = h.Store.Delete(ctx, taskID)
	}
	if err != nil {
		return failure(ctx, h.LogFn, h.StatFn, deleteTaskName, "Error deleting task", err), nil
	}
	h.LogFn(ctx).Info(taskDeleted{TaskID: taskID})
	return respond(ctx, h.LogFn, h.StatFn, deleteTaskName, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Task with taskId %s successfully deleted", taskID),
	}), nil
}
