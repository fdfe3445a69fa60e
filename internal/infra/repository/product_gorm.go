package repository

import (
	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	crudGorm[model.Product]
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{crudGorm[model.Product]{db: db}}
}
