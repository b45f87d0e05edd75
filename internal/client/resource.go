package client

import (
	"context"
	"net/http"
)

// Resource exposes the five REST operations for one collection. T is the
// record type; responses are parsed into it at this boundary so shape
// mismatches surface as ParseError here and nowhere else.
type Resource[T any] struct {
	api  *API
	name string
}

func NewResource[T any](api *API, name string) *Resource[T] {
	return &Resource[T]{api: api, name: name}
}

// Name returns the collection name, which doubles as the cache key resource.
func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.api.do(ctx, http.MethodGet, "/"+r.name, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.api.do(ctx, http.MethodGet, "/"+r.name+"/"+id, nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var out T
	err := r.api.do(ctx, http.MethodPost, "/"+r.name, payload, &out)
	return out, err
}

func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var out T
	err := r.api.do(ctx, http.MethodPut, "/"+r.name+"/"+id, payload, &out)
	return out, err
}

// Delete removes a record. The server echoes the deleted record back, which
// is returned for confirmation messages.
func (r *Resource[T]) Delete(ctx context.Context, id string) (T, error) {
	var out T
	err := r.api.do(ctx, http.MethodDelete, "/"+r.name+"/"+id, nil, &out)
	return out, err
}
