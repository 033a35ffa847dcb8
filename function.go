package taskfull

import (
	"github.com/aws/aws-lambda-go/lambda"
)

//go:generate mockgen -destination mock_domain_test.go -package taskfull github.com/asecurityteam/taskfull Fetcher,Function

// LambdaFunction is a small wrapper around the lambda.Handler
// that preserves the original signature of the function for later
// retrieval.
type LambdaFunction struct {
	lambda.Handler
	source interface{}
}

// Source returns the original function signature.
func (f *LambdaFunction) Source() interface{} {
	return f.source
}

// NewFunction is a replacement for lambda.NewHandler that returns
// a Function. The task handlers are registered through this as
// NewFunction(h.Handle) so that mock modes can rebuild the same
// event/response signature.
func NewFunction(v interface{}) Function {
	return &LambdaFunction{
		Handler: lambda.NewHandler(v),
		source:  v,
	}
}
