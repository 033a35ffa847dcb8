package v1

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-lambda-go/events"
)

//go:generate mockgen -destination mock_taskstore_test.go -package v1 github.com/asecurityteam/taskfull/pkg/domain TaskStore

const (
	headerContentType = "Content-Type"
	headerAllowOrigin = "Access-Control-Allow-Origin"

	pathParamTaskID = "taskId"

	statSuccess = "tasks.handler.success"
	statFailure = "tasks.handler.failure"

	messageUnexpected = "Unexpected error occurred"
)

// messageResponse is the body of every error response and of responses
// that only confirm an action.
type messageResponse struct {
	Message string `json:"message"`
}

type requestRejected struct {
	Handler string `logevent:"handler"`
	Reason  string `logevent:"reason"`
	Message string `logevent:"message,default=request-rejected"`
}

type requestFailed struct {
	Handler string `logevent:"handler"`
	Reason  string `logevent:"reason"`
	Message string `logevent:"message,default=request-failed"`
}

func responseHeaders() map[string]string {
	return map[string]string{
		headerContentType: "application/json",
		headerAllowOrigin: "*",
	}
}

// requestBody returns the raw event body. Bodies flagged as base64 by the
// gateway are decoded and an absent body reads as an empty object.
func requestBody(in events.APIGatewayProxyRequest) ([]byte, error) {
	if in.Body == "" {
		return []byte("{}"), nil
	}
	if in.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(in.Body)
	}
	return []byte(in.Body), nil
}

// decodeObject parses the body as a JSON object, keeping each member
// undecoded so that presence can be tested separately from type.
func decodeObject(in events.APIGatewayProxyRequest) (map[string]json.RawMessage, error) {
	b, err := requestBody(in)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("request body is not a JSON object")
	}
	return fields, nil
}

func decodeString(name string, raw json.RawMessage) (string, error) {
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil || value == nil {
		return "", domain.ValidationError{Reason: fmt.Sprintf("Field %s must be a string", name)}
	}
	return *value, nil
}

func taskIDFromPath(in events.APIGatewayProxyRequest) (string, error) {
	taskID := in.PathParameters[pathParamTaskID]
	if strings.TrimSpace(taskID) == "" {
		return "", domain.ValidationError{Reason: "Missing or invalid taskId"}
	}
	return taskID, nil
}

// respond renders a successful result. A body that cannot be encoded is
// reported as an internal failure.
func respond(ctx context.Context, logFn domain.LogFn, statFn domain.StatFn, handler string, status int, v interface{}) events.APIGatewayProxyResponse {
	b, err := json.Marshal(v)
	if err != nil {
		return failure(ctx, logFn, statFn, handler, messageUnexpected, domain.InternalError{Reason: err})
	}
	statFn(ctx).Count(statSuccess, 1, "handler:"+handler)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    responseHeaders(),
		Body:       string(b),
	}
}

// failure converts any error into a response. Only validation and
// not-found messages reach the caller; everything else is replaced with a
// fixed message and the detail is logged.
func failure(ctx context.Context, logFn domain.LogFn, statFn domain.StatFn, handler string, storeMessage string, err error) events.APIGatewayProxyResponse {
	var (
		validationErr domain.ValidationError
		notFoundErr   domain.NotFoundError
		storeErr      domain.StoreError
		status        int
		message       string
		class         string
	)
	switch {
	case errors.As(err, &validationErr):
		status, message, class = http.StatusBadRequest, validationErr.Reason, "validation"
	case errors.As(err, &notFoundErr):
		status, message, class = http.StatusNotFound, fmt.Sprintf("Task with taskId %s not found", notFoundErr.ID), "not_found"
	case errors.As(err, &storeErr):
		status, message, class = http.StatusInternalServerError, storeMessage, "store"
	default:
		status, message, class = http.StatusInternalServerError, messageUnexpected, "internal"
	}
	if status < http.StatusInternalServerError {
		logFn(ctx).Warn(requestRejected{Handler: handler, Reason: err.Error()})
	} else {
		logFn(ctx).Error(requestFailed{Handler: handler, Reason: err.Error()})
	}
	statFn(ctx).Count(statFailure, 1, "handler:"+handler, "error:"+class)
	b, _ := json.Marshal(messageResponse{Message: message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    responseHeaders(),
		Body:       string(b),
	}
}
