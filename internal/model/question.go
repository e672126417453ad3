package model

import "encoding/json"

// StoredQuestion 题库中的题目，AI 生成的题目也会写入这里
// swagger:model StoredQuestion
type StoredQuestion struct {
	BaseModel
	QuestionID string          `gorm:"size:64;uniqueIndex;not null" json:"questionId"`
	Text       string          `gorm:"type:text;not null" json:"text"`
	Choices    json.RawMessage `gorm:"type:json" json:"choices"` // JSON: []string
	Answer     int             `gorm:"default:0" json:"answer"`
	Origin     string          `gorm:"size:20" json:"origin"` // manual, generated
}

func (StoredQuestion) TableName() string {
	return "bank_questions"
}

const (
	QuestionOriginManual    = "manual"
	QuestionOriginGenerated = "generated"
)
