package repository

import (
	"context"
	"errors"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) WithContext(ctx context.Context) *ResultRepository {
	return &ResultRepository{DB: r.DB.WithContext(ctx)}
}

func (r *ResultRepository) Create(result *model.StoredResult) error {
	return r.DB.Create(result).Error
}

func (r *ResultRepository) FindByID(id string) (*model.StoredResult, error) {
	var res model.StoredResult
	err := r.DB.Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// List 分页查询，examTitle 为空时不过滤
func (r *ResultRepository) List(page, limit int, examTitle string) ([]model.StoredResult, int64, error) {
	var results []model.StoredResult
	var total int64
	query := r.DB.Model(&model.StoredResult{})
	if examTitle != "" {
		query = query.Where("exam_title = ?", examTitle)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&results).Error
	return results, total, err
}
