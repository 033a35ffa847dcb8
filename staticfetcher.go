package taskfull

import (
	"context"
)

// StaticFetcher is an implementation of the Fetcher that maintains a static mapping
// of names to Function instances. All task handlers are compiled into the same
// binary and share the process resources, including the store client, so there is
// no orchestration of external systems when starting or invoking a Function.
//
// The trade-off is that updates to, additions of, and removals of Functions must be
// accomplished by generating a new build and redeploying the runtime.
type StaticFetcher struct {
	// Functions is the underlying static map of function names to executable
	// functions. The keys of the map will be used as the name of the Function.
	Functions map[string]Function
}

// Fetch resolves the name using the internal mapping.
func (f *StaticFetcher) Fetch(_ context.Context, name string) (Function, error) {
	h, ok := f.Functions[name]
	if !ok {
		return nil, NotFoundError{ID: name}
	}
	return h, nil
}
