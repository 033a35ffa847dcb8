package main

// This command builds every task handler against a single store and serves
// them through the runtime. The same binary runs as an HTTP service or, with
// the lambda build modes, as one native Lambda function selected by name.
//
//	curl --request POST --data '{"title":"A","status":"open","description":"d"}' localhost:8080/tasks
//	curl localhost:8080/tasks

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/asecurityteam/settings/v2"
	"github.com/asecurityteam/taskfull"
	"github.com/asecurityteam/taskfull/pkg/domain"
	v1 "github.com/asecurityteam/taskfull/pkg/handlers/v1"
	"github.com/asecurityteam/taskfull/pkg/store"
	"github.com/joho/godotenv"
)

const (
	envMode      = "TASKFULL_MODE"
	envFunction  = "TASKFULL_FUNCTION"
	envTableName = "TABLE_NAME"
	envTaskTable = "TASKFULL_STORE_DYNAMODB_TABLENAME"
)

var routes = []taskfull.Route{
	{Method: http.MethodPost, Pattern: "/tasks", Function: "createTask"},
	{Method: http.MethodGet, Pattern: "/tasks", Function: "getTasks"},
	{Method: http.MethodPatch, Pattern: "/tasks/{taskId}", Function: "updateTask"},
	{Method: http.MethodPut, Pattern: "/tasks/{taskId}", Function: "updateTask"},
	{Method: http.MethodDelete, Pattern: "/tasks/{taskId}", Function: "deleteTask"},
}

func functions(s domain.TaskStore) map[string]taskfull.Function {
	logFn := taskfull.LoggerFromContext
	statFn := taskfull.StatFromContext
	return map[string]taskfull.Function{
		"createTask": taskfull.NewFunction((&v1.CreateTask{LogFn: logFn, StatFn: statFn, Store: s}).Handle),
		"getTasks":   taskfull.NewFunction((&v1.GetTasks{LogFn: logFn, StatFn: statFn, Store: s}).Handle),
		"updateTask": taskfull.NewFunction((&v1.UpdateTask{LogFn: logFn, StatFn: statFn, Store: s}).Handle),
		"deleteTask": taskfull.NewFunction((&v1.DeleteTask{LogFn: logFn, StatFn: statFn, Store: s}).Handle),
	}
}

// environ returns env with the legacy TABLE_NAME variable mapped onto the
// store setting when the latter is not set.
func environ(env []string) []string {
	var table string
	var legacy bool
	for _, kv := range env {
		name, value, _ := strings.Cut(kv, "=")
		switch name {
		case envTaskTable:
			return env
		case envTableName:
			table, legacy = value, true
		}
	}
	if !legacy {
		return env
	}
	return append(env[:len(env):len(env)], envTaskTable+"="+table)
}

func main() {
	// Handle the -h flag and print settings.
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.Usage = func() {}
	err := fs.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		fmt.Println(taskfull.Help(store.NewComponent()))
		return
	}

	// A missing .env file is normal outside of local development.
	_ = godotenv.Load()
	if mode := os.Getenv(envMode); mode != "" {
		taskfull.BuildMode = mode
	}
	if target := os.Getenv(envFunction); target != "" {
		taskfull.TargetFunction = target
	}

	ctx := context.Background()
	source, err := settings.NewEnvSource(environ(os.Environ()))
	if err != nil {
		panic(err.Error())
	}
	var s domain.TaskStore
	err = settings.NewComponent(
		ctx,
		&settings.PrefixSource{Source: source, Prefix: []string{"taskfull"}},
		store.NewComponent(),
		&s,
	)
	if err != nil {
		panic(err.Error())
	}

	fetcher := &taskfull.StaticFetcher{Functions: functions(s)}
	if err := taskfull.Start(ctx, source, fetcher, routes...); err != nil {
		panic(err.Error())
	}
}
