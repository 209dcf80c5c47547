package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avantaimpex/console-backend/internal/domain"
)

// Collection is the typed client for one resource on the remote backend,
// e.g. NewCollection[domain.Product](client, "products"). It implements
// domain.Collection[T] and owns no state between calls.
type Collection[T domain.Entity] struct {
	client   *Client
	resource string
}

// NewCollection creates a Collection for the named resource
func NewCollection[T domain.Entity](client *Client, resource string) *Collection[T] {
	return &Collection[T]{client: client, resource: resource}
}

func (c *Collection[T]) path(id string) string {
	if id == "" {
		return "/" + c.resource
	}
	return "/" + c.resource + "/" + url.PathEscape(id)
}

// List fetches the full collection. The backend is not paginated.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.client.do(ctx, http.MethodGet, c.path(""), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a single item by id
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	if err := c.client.do(ctx, http.MethodGet, c.path(id), nil, &item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Create posts a new item. The payload excludes the identifier; the returned
// item carries the server-assigned id and any server-computed fields.
func (c *Collection[T]) Create(ctx context.Context, payload domain.Payload) (T, error) {
	var item T
	if err := c.client.do(ctx, http.MethodPost, c.path(""), payload, &item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Update patches an existing item. The payload carries only the fields the
// caller intends to change; it is never widened into a full replace.
func (c *Collection[T]) Update(ctx context.Context, id string, payload domain.Payload) (T, error) {
	var item T
	if err := c.client.do(ctx, http.MethodPatch, c.path(id), payload, &item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Remove deletes an item by id
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	return c.client.do(ctx, http.MethodDelete, c.path(id), nil, nil)
}

var _ domain.Collection[domain.Product] = (*Collection[domain.Product])(nil)
