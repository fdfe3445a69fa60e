package repository

import "context"

// エンティティごとに同じCRUDを書かないための共通の約束。
// Create/Update はポインタで受けて、採番されたIDなどを書き戻す。
type Crud[T any] interface {
	FindByID(ctx context.Context, id int64) (T, error)
	List(ctx context.Context, limit int, offset int) ([]T, int64, error)
	Create(ctx context.Context, e *T) error
	Update(ctx context.Context, e *T) error
	Delete(ctx context.Context, id int64) error
}
