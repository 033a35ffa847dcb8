package taskfull

import (
	"context"
	"fmt"
	"strings"

	log "github.com/asecurityteam/component-log"
	stat "github.com/asecurityteam/component-stat"
	"github.com/asecurityteam/runhttp"
	"github.com/asecurityteam/settings/v2"
	"github.com/aws/aws-lambda-go/lambda"
)

const (
	// BuildModeHTTP is the standard mode of running an HTTP server
	// that implements parts of the Lambda API and the task REST routes.
	BuildModeHTTP = "http"
	// BuildModeHTTPMock runs the HTTP server but with mocked versions
	// of the lambda functions loaded.
	BuildModeHTTPMock = "http_mock"
	// BuildModeLambda runs the official lambda server using the lambda
	// SDK. Using this mode requires the TargetFunction value to be set.
	BuildModeLambda = "lambda"
	// BuildModeLambdaMock runs the official lambda server using the lambda
	// SDK but with a mocked version of the loaded function. Using this mode
	// requires the TargetFunction value to be set.
	BuildModeLambdaMock = "lambda_mock"

	settingsPrefix = "taskfull"
)

var (
	// BuildMode determines the behavior of the Start method. There
	// are several ways to use this value. The suggested way is through
	// build variables by adding `-ldflags "-X github.com/asecurityteam/taskfull.BuildMode=<value>"`
	// to `go build` or `go run` commands. If you want to use environment variables
	// instead then you can set this variable in code before calling Start
	// like `taskfull.BuildMode=os.Getenv("MYENVVAR")`.
	//
	// Alternatively, the StartMode() method may be used if you prefer to pass in
	// parameters via code rather than toggling the global setting.
	BuildMode = BuildModeHTTP
	// TargetFunction is used when building in a native lambda mode to select a
	// single function to run. This value can be set in all the same ways as the
	// BuildMode value.
	TargetFunction = ""
	// LambdaStartFn is the entry point of the official lambda server. It is a
	// variable so that tests can replace the blocking server loop.
	LambdaStartFn = lambda.StartHandler
)

// Start is a replacement for the lambda.Start method that introduces new
// features. By default, this method will start the lambda HTTP API and the
// given REST routes and will invoke functions loaded using the given Fetcher.
func Start(ctx context.Context, s settings.Source, f Fetcher, routes ...Route) error {
	return StartMode(ctx, s, f, BuildMode, TargetFunction, routes...)
}

// StartMode works just like Start but allows for explicit passing of the build
// mode and target function.
func StartMode(ctx context.Context, s settings.Source, f Fetcher, mode string, target string, routes ...Route) error {
	switch {
	case strings.EqualFold(mode, BuildModeHTTP):
		return StartHTTP(ctx, s, f, routes...)
	case strings.EqualFold(mode, BuildModeHTTPMock):
		return StartHTTPMock(ctx, s, f, routes...)
	case strings.EqualFold(mode, BuildModeLambda):
		return StartLambda(ctx, s, f, target)
	case strings.EqualFold(mode, BuildModeLambdaMock):
		return StartLambdaMock(ctx, s, f, target)
	default:
		return fmt.Errorf("unknown build mode %s", mode)
	}
}

func newHTTPRuntime(ctx context.Context, s settings.Source, f Fetcher, routes []Route) (*runhttp.Runtime, error) {
	conf := &RouterConfig{
		Fetcher: f,
		Routes:  routes,
	}
	router := NewRouter(conf)
	rtC := runhttp.NewComponent().WithHandler(router)
	rt := new(runhttp.Runtime)
	err := settings.NewComponent(
		ctx,
		&settings.PrefixSource{Source: s, Prefix: []string{settingsPrefix}},
		rtC,
		rt,
	)
	return rt, err
}

// StartHTTP runs the HTTP API.
func StartHTTP(ctx context.Context, s settings.Source, f Fetcher, routes ...Route) error {
	rt, err := newHTTPRuntime(ctx, s, f, routes)
	if err != nil {
		return err
	}
	return rt.Run()
}

// StartHTTPMock runs the HTTP API with mocked out functions.
func StartHTTPMock(ctx context.Context, s settings.Source, f Fetcher, routes ...Route) error {
	return StartHTTP(ctx, s, &MockingFetcher{Fetcher: f}, routes...)
}

// newLambdaFunction resolves the target and decorates it with the logger
// and stat client that runhttp would otherwise provide. Both are read from
// the same logger and stats settings groups the runtime uses, under the
// taskfull prefix rather than the runtime one.
func newLambdaFunction(ctx context.Context, s settings.Source, f Fetcher, target string) (Function, error) {
	if target == "" {
		return nil, fmt.Errorf("a target function is required in %s and %s modes", BuildModeLambda, BuildModeLambdaMock)
	}
	source := &settings.PrefixSource{Source: s, Prefix: []string{settingsPrefix}}
	logger, err := log.Load(ctx, source, log.NewComponent())
	if err != nil {
		return nil, err
	}
	stats, err := stat.Load(ctx, source, stat.NewComponent())
	if err != nil {
		return nil, err
	}
	f = &statFetcher{
		Stat:    stats,
		Fetcher: &loggingFetcher{Logger: logger, Fetcher: f},
	}
	return f.Fetch(ctx, target)
}

// StartLambda runs the target function using the official lambda server.
func StartLambda(ctx context.Context, s settings.Source, f Fetcher, target string) error {
	fn, err := newLambdaFunction(ctx, s, f, target)
	if err != nil {
		return err
	}
	LambdaStartFn(fn)
	return nil
}

// StartLambdaMock runs a mocked version of the target function using the
// official lambda server.
func StartLambdaMock(ctx context.Context, s settings.Source, f Fetcher, target string) error {
	return StartLambda(ctx, s, &MockingFetcher{Fetcher: f}, target)
}
