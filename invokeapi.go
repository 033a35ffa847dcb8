package taskfull

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
)

const (
	invocationTypeHeader          = "X-Amz-Invocation-Type"
	invocationTypeRequestResponse = "RequestResponse"
	invocationTypeEvent           = "Event"
	invocationTypeDryRun          = "DryRun"
	invocationVersionHeader       = "X-Amz-Executed-Version"
	invocationErrorHeader         = "X-Amz-Function-Error"
	invocationErrorTypeHandled    = "Handled"
	invocationErrorTypeUnhandled  = "Unhandled"
	invocationParamFunction       = "functionName"
	invocationInvalidParameter    = "InvalidParameterValueException"

	statInvocation = "taskfull.invocation"
)

// detachedContext outlives the request that created it. Deadlines and
// cancellation come from the embedded context while values, such as the
// request logger and stat client, are still resolved through Values.
type detachedContext struct {
	context.Context
	Values context.Context
}

func (c *detachedContext) Value(key interface{}) interface{} {
	return c.Values.Value(key)
}

type invokeFailed struct {
	Function string `logevent:"function"`
	Reason   string `logevent:"reason"`
	Message  string `logevent:"message,default=invoke-failed"`
}

// lambdaError is the error body returned by the Lambda Invoke API.
type lambdaError struct {
	Message    string   `json:"errorMessage"`
	Type       string   `json:"errorType"`
	StackTrace []string `json:"stackTrace"`
}

// Invoke serves the AWS Lambda Invoke API for every function known to the
// Fetcher. Task functions expect an API Gateway proxy event as the payload
// and answer with a proxy response, exactly as they would when deployed.
//
// The Qualifier and LogType options are ignored. The executed version is
// always reported as "latest".
//
// https://docs.aws.amazon.com/lambda/latest/dg/API_Invoke.html
type Invoke struct {
	LogFn      LogFn
	StatFn     StatFn
	URLParamFn URLParamFn
	Fetcher    Fetcher
}

func (h *Invoke) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := h.URLParamFn(ctx, invocationParamFunction)
	fn, err := h.Fetcher.Fetch(ctx, name)
	if err != nil {
		var notFound NotFoundError
		if !errors.As(err, &notFound) {
			h.LogFn(ctx).Error(invokeFailed{Function: name, Reason: err.Error()})
			writeLambdaError(w, http.StatusInternalServerError, newLambdaError(err))
			return
		}
		writeLambdaError(w, http.StatusNotFound, newLambdaError(err))
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeLambdaError(w, http.StatusBadRequest, newLambdaError(err))
		return
	}

	invocationType := r.Header.Get(invocationTypeHeader)
	switch invocationType {
	case "", invocationTypeRequestResponse:
		w.Header().Set(invocationVersionHeader, "latest")
		h.requestResponse(w, r, name, fn, payload)
	case invocationTypeEvent:
		w.Header().Set(invocationVersionHeader, "latest")
		h.event(ctx, name, fn, payload)
		w.WriteHeader(http.StatusAccepted)
	case invocationTypeDryRun:
		w.Header().Set(invocationVersionHeader, "latest")
		w.WriteHeader(http.StatusNoContent)
	default:
		writeLambdaError(w, http.StatusBadRequest, lambdaError{
			Message:    fmt.Sprintf("InvocationType %s not valid", invocationType),
			Type:       invocationInvalidParameter,
			StackTrace: []string{},
		})
	}
}

// event runs the function in the background. The request context is
// canceled once the response is written so the invocation is given a
// detached one.
func (h *Invoke) event(ctx context.Context, name string, fn Function, payload []byte) {
	ctx = &detachedContext{Context: context.Background(), Values: ctx}
	go func() {
		_, err := fn.Invoke(ctx, payload)
		h.StatFn(ctx).Count(statInvocation, 1, "function:"+name, "status:"+strconv.Itoa(invocationStatus(err)))
		if err != nil {
			h.LogFn(ctx).Error(invokeFailed{Function: name, Reason: err.Error()})
		}
	}()
}

func (h *Invoke) requestResponse(w http.ResponseWriter, r *http.Request, name string, fn Function, payload []byte) {
	ctx := r.Context()
	out, err := fn.Invoke(ctx, payload)
	status := invocationStatus(err)
	h.StatFn(ctx).Count(statInvocation, 1, "function:"+name, "status:"+strconv.Itoa(status))
	if err != nil {
		h.LogFn(ctx).Error(invokeFailed{Function: name, Reason: err.Error()})
		if status >= http.StatusInternalServerError {
			w.Header().Set(invocationErrorHeader, invocationErrorTypeUnhandled)
		} else {
			w.Header().Set(invocationErrorHeader, invocationErrorTypeHandled)
		}
		writeLambdaError(w, status, newLambdaError(err))
		return
	}
	w.WriteHeader(status)
	if len(out) > 0 {
		_, _ = w.Write(out)
	}
}

// invocationStatus reports payload decoding failures as client errors and
// anything else raised by the function as a server error.
func invocationStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var (
		syntaxErr    *json.SyntaxError
		typeErr      *json.UnmarshalTypeError
		invalidErr   *json.InvalidUnmarshalError
		fieldErr     *json.UnmarshalFieldError // nolint
		invalidUTF8E *json.InvalidUTF8Error    // nolint
	)
	switch {
	case errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.As(err, &invalidErr),
		errors.As(err, &fieldErr),
		errors.As(err, &invalidUTF8E):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// newLambdaError names the error after its concrete type, dereferencing
// pointers, the way the Lambda runtime reports errorType.
func newLambdaError(err error) lambdaError {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return lambdaError{
		Message:    err.Error(),
		Type:       t.Name(),
		StackTrace: []string{},
	}
}

func writeLambdaError(w http.ResponseWriter, status int, body lambdaError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
