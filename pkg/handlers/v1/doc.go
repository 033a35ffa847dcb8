// Package v1 contains the Lambda handlers that implement the version 1.X.X
// task API. Each handler accepts an API Gateway proxy event, performs a
// single operation against a domain.TaskStore, and always answers with a
// proxy response carrying a status code and a JSON body. Errors never escape
// a handler as Go errors; they are rendered as responses at this boundary.
package v1
