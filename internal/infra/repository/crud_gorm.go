package repository

import (
	"context"
	"errors"

	repo "shop/internal/repository"

	"gorm.io/gorm"
)

// 型パラメータで共通化したGORMのCRUD実装。
// 各エンティティのrepoはこれを埋め込んで足りない分だけ足す。
type crudGorm[T any] struct {
	db *gorm.DB
}

func (r *crudGorm[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var e T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, repo.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return e, nil
}

func (r *crudGorm[T]) List(ctx context.Context, limit int, offset int) ([]T, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return []T{}, 0, err
	}

	var items []T
	err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []T{}, 0, err
	}

	return items, total, nil
}

// Createは採番されたIDをeに書き戻す
func (r *crudGorm[T]) Create(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *crudGorm[T]) Update(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *crudGorm[T]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
