package repository

import (
	"smart_assessment_backend/internal/model"

	"gorm.io/gorm"
)

// DashboardRepository 成绩统计查询
type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

type LevelCount struct {
	Level model.Level `json:"level"`
	Count int64       `json:"count"`
}

type ResultSummary struct {
	Total        int64        `json:"total"`
	AverageScore float64      `json:"averageScore"`
	Levels       []LevelCount `json:"levels"`
}

// Summary 汇总成绩数量、平均分和各等级人数，examTitle 为空时统计全部
func (r *DashboardRepository) Summary(examTitle string) (*ResultSummary, error) {
	scope := func() *gorm.DB {
		q := r.DB.Model(&model.StoredResult{})
		if examTitle != "" {
			q = q.Where("exam_title = ?", examTitle)
		}
		return q
	}

	var agg struct {
		Total        int64
		AverageScore float64
	}
	if err := scope().Select("COUNT(*) AS total, COALESCE(AVG(score), 0) AS average_score").Scan(&agg).Error; err != nil {
		return nil, err
	}

	var levels []LevelCount
	if err := scope().Select("level, COUNT(*) AS count").Group("level").Order("level").Scan(&levels).Error; err != nil {
		return nil, err
	}

	return &ResultSummary{
		Total:        agg.Total,
		AverageScore: agg.AverageScore,
		Levels:       levels,
	}, nil
}
