package model

// Level 能力等级
type Level string

const (
	LevelGood             Level = "good"
	LevelAverage          Level = "average"
	LevelNeedsImprovement Level = "needs_improvement"
)

// Result 一次作答的评分结果
type Result struct {
	Score   int   `json:"score"`
	Correct int   `json:"correct"`
	Total   int   `json:"total"`
	Level   Level `json:"level"`
}

// swagger:model StoredResult
type StoredResult struct {
	UUIDBase
	ExamTitle string `gorm:"size:255;not null;index" json:"examTitle"`
	Score     int    `gorm:"not null" json:"score"`
	Correct   int    `gorm:"not null" json:"correct"`
	Total     int    `gorm:"not null" json:"total"`
	Level     Level  `gorm:"size:32" json:"level"`
	StudentID string `gorm:"size:128;index" json:"studentId,omitempty"`
	// 结果来源：session（本服务评分）或 api（外部上报）
	Source string `gorm:"size:20;default:'api'" json:"source"`
}

func (StoredResult) TableName() string {
	return "exam_results"
}
