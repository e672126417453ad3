package service

import "smart_assessment_backend/internal/model"

// 等级阈值，下界包含
const (
	GoodThreshold    = 80
	AverageThreshold = 50
)

// Score 根据总题数和答对数计算成绩，total 为 0 时返回零分
func Score(total, correct int) model.Result {
	if total <= 0 {
		return model.Result{Level: model.LevelNeedsImprovement}
	}

	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}

	// 整数运算实现四舍五入：floor(100*c/t + 0.5)
	score := (200*correct + total) / (2 * total)

	return model.Result{
		Score:   score,
		Correct: correct,
		Total:   total,
		Level:   ClassifyLevel(score),
	}
}

func ClassifyLevel(score int) model.Level {
	switch {
	case score >= GoodThreshold:
		return model.LevelGood
	case score >= AverageThreshold:
		return model.LevelAverage
	default:
		return model.LevelNeedsImprovement
	}
}
