package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/addressbook/datastores"
)

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}

	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

// statusError maps store errors to HTTP errors, other errors are returned as is.
func statusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ds.ErrObjectNotFound):
		return huma.Error404NotFound("id not found", err)
	case errors.Is(err, ds.ErrDuplicateID):
		return huma.Error409Conflict("id already used by another contact", err)
	case errors.Is(err, ds.ErrEmptyID):
		return huma.Error422UnprocessableEntity("please add a contact id", err)
	default:
		return err
	}
}
