package taskfull

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

const (
	statGateway = "taskfull.gateway"

	gatewayMessageNotFound = "Not Found"
	gatewayMessageInternal = "Internal server error"
	gatewayMessageBadBody  = "Unable to read request body"
)

// Route binds an HTTP method and a chi path pattern, such as
// /tasks/{taskId}, to the name of a Function.
type Route struct {
	Method   string
	Pattern  string
	Function string
}

// PathParams returns the names of the URL parameters declared in the
// pattern, in order of appearance.
func (r Route) PathParams() []string {
	var names []string
	rest := r.Pattern
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return names
		}
		name := rest[start+1 : start+end]
		// chi allows a regexp suffix such as {taskId:[a-z-]+}.
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
		rest = rest[start+end+1:]
	}
}

type gatewayMessage struct {
	Message string `json:"message"`
}

type gatewayFailed struct {
	Function string `logevent:"function"`
	Reason   string `logevent:"reason"`
	Message  string `logevent:"message,default=gateway-failed"`
}

// Gateway exposes a single Function as a REST endpoint. It converts the
// HTTP request into an API Gateway proxy event, invokes the Function, and
// writes the proxy response back out. Failures of the integration itself,
// rather than of the request, are reported as 502 with the same body that
// API Gateway produces.
type Gateway struct {
	LogFn      LogFn
	StatFn     StatFn
	URLParamFn URLParamFn
	Fetcher    Fetcher
	Route      Route
}

func (h *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fn, errFn := h.Fetcher.Fetch(ctx, h.Route.Function)
	switch errFn.(type) {
	case nil:
		break
	case NotFoundError:
		writeGatewayMessage(w, http.StatusNotFound, gatewayMessageNotFound)
		return
	default:
		h.LogFn(ctx).Error(gatewayFailed{Function: h.Route.Function, Reason: errFn.Error()})
		writeGatewayMessage(w, http.StatusInternalServerError, gatewayMessageInternal)
		return
	}

	body, errRead := io.ReadAll(r.Body)
	if errRead != nil {
		writeGatewayMessage(w, http.StatusBadRequest, gatewayMessageBadBody)
		return
	}
	payload, errMarshal := json.Marshal(h.event(r, body))
	if errMarshal != nil {
		h.LogFn(ctx).Error(gatewayFailed{Function: h.Route.Function, Reason: errMarshal.Error()})
		writeGatewayMessage(w, http.StatusInternalServerError, gatewayMessageInternal)
		return
	}

	out, errInvoke := fn.Invoke(ctx, payload)
	var resp events.APIGatewayProxyResponse
	if errInvoke == nil {
		errInvoke = json.Unmarshal(out, &resp)
	}
	if errInvoke != nil {
		h.LogFn(ctx).Error(gatewayFailed{Function: h.Route.Function, Reason: errInvoke.Error()})
		h.StatFn(ctx).Count(statGateway, 1, "function:"+h.Route.Function, "status:"+strconv.Itoa(http.StatusBadGateway))
		writeGatewayMessage(w, http.StatusBadGateway, gatewayMessageInternal)
		return
	}
	h.write(w, r, resp)
}

func (h *Gateway) event(r *http.Request, body []byte) events.APIGatewayProxyRequest {
	var pathParams map[string]string
	for _, name := range h.Route.PathParams() {
		if pathParams == nil {
			pathParams = make(map[string]string)
		}
		pathParams[name] = h.URLParamFn(r.Context(), name)
	}
	query := r.URL.Query()
	var queryParams map[string]string
	if len(query) > 0 {
		queryParams = make(map[string]string, len(query))
		for k, v := range query {
			queryParams[k] = v[len(v)-1]
		}
	}
	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[k] = v[len(v)-1]
		}
	}

	event := events.APIGatewayProxyRequest{
		Resource:                        h.Route.Pattern,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         headers,
		MultiValueHeaders:               r.Header,
		QueryStringParameters:           queryParams,
		MultiValueQueryStringParameters: query,
		PathParameters:                  pathParams,
		RequestContext: events.APIGatewayProxyRequestContext{
			ResourcePath: h.Route.Pattern,
			Path:         r.URL.Path,
			HTTPMethod:   r.Method,
		},
	}
	if utf8.Valid(body) {
		event.Body = string(body)
	} else {
		event.Body = base64.StdEncoding.EncodeToString(body)
		event.IsBase64Encoded = true
	}
	return event
}

func (h *Gateway) write(w http.ResponseWriter, r *http.Request, resp events.APIGatewayProxyResponse) {
	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			h.LogFn(r.Context()).Error(gatewayFailed{Function: h.Route.Function, Reason: err.Error()})
			writeGatewayMessage(w, http.StatusBadGateway, gatewayMessageInternal)
			return
		}
		body = decoded
	}
	for k, values := range resp.MultiValueHeaders {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	status := resp.StatusCode
	if status == 0 {
		// Mocked functions return a zero response.
		status = http.StatusOK
	}
	h.StatFn(r.Context()).Count(statGateway, 1, "function:"+h.Route.Function, "status:"+strconv.Itoa(status))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeGatewayMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gatewayMessage{Message: message})
}
