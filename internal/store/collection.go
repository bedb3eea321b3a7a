package store

import "context"

// Collection is a typed view of one collection. PT is the pointer type
// that implements Record, e.g. Collection[models.User, *models.User].
type Collection[T any, PT interface {
	*T
	Record
}] struct {
	e    *Engine
	name string
}

// NewCollection binds the collection name to e.
func NewCollection[T any, PT interface {
	*T
	Record
}](e *Engine, name string) *Collection[T, PT] {
	return &Collection[T, PT]{e: e, name: name}
}

// With returns the same collection bound to another engine view, usually
// the one handed to a Tx callback.
func (c *Collection[T, PT]) With(e *Engine) *Collection[T, PT] {
	return &Collection[T, PT]{e: e, name: c.name}
}

func (c *Collection[T, PT]) Name() string { return c.name }

func (c *Collection[T, PT]) Insert(ctx context.Context, v PT) (int64, error) {
	return c.e.Insert(ctx, c.name, v)
}

func (c *Collection[T, PT]) Replace(ctx context.Context, v PT) error {
	return c.e.Replace(ctx, c.name, v)
}

func (c *Collection[T, PT]) Get(ctx context.Context, id int64) (PT, error) {
	v := PT(new(T))
	if err := c.e.GetByID(ctx, c.name, id, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Collection[T, PT]) All(ctx context.Context) ([]PT, error) {
	rows, err := c.e.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return decodeAll[T, PT](rows)
}

func (c *Collection[T, PT]) ByIndex(ctx context.Context, index string, value any) ([]PT, error) {
	rows, err := c.e.GetByIndex(ctx, c.name, index, value)
	if err != nil {
		return nil, err
	}
	return decodeAll[T, PT](rows)
}

func (c *Collection[T, PT]) Delete(ctx context.Context, id int64) error {
	return c.e.Delete(ctx, c.name, id)
}

func (c *Collection[T, PT]) DeleteByIndex(ctx context.Context, index string, value any) (int64, error) {
	return c.e.DeleteByIndex(ctx, c.name, index, value)
}

func (c *Collection[T, PT]) Count(ctx context.Context) (int64, error) {
	return c.e.Count(ctx, c.name)
}

func (c *Collection[T, PT]) CountByIndex(ctx context.Context, index string, value any) (int64, error) {
	return c.e.CountByIndex(ctx, c.name, index, value)
}

func (c *Collection[T, PT]) Clear(ctx context.Context) error {
	return c.e.Clear(ctx, c.name)
}

func decodeAll[T any, PT interface {
	*T
	Record
}](rows []Row) ([]PT, error) {
	out := make([]PT, 0, len(rows))
	for _, r := range rows {
		v := PT(new(T))
		if err := r.Decode(v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
