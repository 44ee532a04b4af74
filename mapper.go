package sqlmap

import "context"

// Mapper is the generic data access contract a generated per-table mapper
// embeds. T is the record type, U the example type and K the primary key
// type.
type Mapper[T, U, K any] interface {
	CountByExample(ctx context.Context, example *U) (int64, error)
	DeleteByExample(ctx context.Context, example *U) (int64, error)
	DeleteByPrimaryKey(ctx context.Context, key K) (int64, error)
	Insert(ctx context.Context, record *T) (int64, error)
	InsertSelective(ctx context.Context, record *T) (int64, error)
	SelectByExample(ctx context.Context, example *U) ([]*T, error)
	SelectByPrimaryKey(ctx context.Context, key K) (*T, error)
	UpdateByExampleSelective(ctx context.Context, record *T, example *U) (int64, error)
	UpdateByExample(ctx context.Context, record *T, example *U) (int64, error)
	UpdateByPrimaryKeySelective(ctx context.Context, record *T) (int64, error)
	UpdateByPrimaryKey(ctx context.Context, record *T) (int64, error)
}

// KeyHolder is implemented by records that can report their primary key.
type KeyHolder[K any] interface {
	PrimaryKey() K
}
