// file: internal/responseutil/context.go

// Package responseutil breaks the import cycle between middleware and the
// response package: middleware stores the configured builder here and
// response.FromContext pulls it back out.
package responseutil

import (
	"context"
	"net/http"
)

// ResponseBuilder is the slice of the response builder that middleware needs.
type ResponseBuilder interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

type builderKey struct{}

// SetBuilder attaches the response builder to the request context.
func SetBuilder(ctx context.Context, builder interface{}) context.Context {
	return context.WithValue(ctx, builderKey{}, builder)
}

// GetBuilder returns the attached builder, or nil when none was set.
func GetBuilder(ctx context.Context) interface{} {
	return ctx.Value(builderKey{})
}
