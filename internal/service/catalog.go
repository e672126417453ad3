package service

import (
	_ "embed"
	"fmt"
	"smart_assessment_backend/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/exams.yaml
var presetCatalog []byte

type catalogDocument struct {
	Exams []model.Exam `yaml:"exams"`
}

// LoadCatalog 解析预置试卷并校验每一份试卷
func LoadCatalog(data []byte) ([]model.Exam, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Exams))
	for _, exam := range doc.Exams {
		if exam.ID == "" {
			return nil, fmt.Errorf("catalog exam %q has no id", exam.Title)
		}
		if _, dup := seen[exam.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog exam id %q", exam.ID)
		}
		seen[exam.ID] = struct{}{}
		if err := exam.Validate(); err != nil {
			return nil, fmt.Errorf("catalog exam %q: %w", exam.ID, err)
		}
	}
	return doc.Exams, nil
}

// MustLoadPresetCatalog 内置目录解析失败属于构建错误
func MustLoadPresetCatalog() []model.Exam {
	exams, err := LoadCatalog(presetCatalog)
	if err != nil {
		panic(err)
	}
	return exams
}
