package repository

import (
	"errors"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Upsert 按 question_id 新增或覆盖题目
func (r *QuestionRepository) Upsert(q *model.StoredQuestion) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "choices", "answer", "origin", "updated_at"}),
	}).Create(q).Error
}

func (r *QuestionRepository) UpsertBatch(qs []model.StoredQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		repo := &QuestionRepository{DB: tx}
		for i := range qs {
			if err := repo.Upsert(&qs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuestionRepository) FindByQuestionID(questionID string) (*model.StoredQuestion, error) {
	var q model.StoredQuestion
	err := r.DB.Where("question_id = ?", questionID).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) List(page, limit int) ([]model.StoredQuestion, int64, error) {
	var qs []model.StoredQuestion
	var total int64
	query := r.DB.Model(&model.StoredQuestion{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}
