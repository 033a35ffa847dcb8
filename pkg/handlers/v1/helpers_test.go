package v1

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/asecurityteam/logevent/v2"
	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/xstats"
	"github.com/stretchr/testify/require"
)

var (
	nullLogger = logevent.New(logevent.Config{Output: io.Discard})
	nullLogFn  = func(context.Context) domain.Logger { return nullLogger }
	nullStatFn = xstats.FromContext
)

func decodeMessage(t *testing.T, resp events.APIGatewayProxyResponse) string {
	var body messageResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return body.Message
}

func decodeTask(t *testing.T, resp events.APIGatewayProxyResponse) domain.Task {
	var task domain.Task
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &task))
	return task
}

func withTaskID(taskID string, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		PathParameters: map[string]string{pathParamTaskID: taskID},
		Body:           body,
	}
}
