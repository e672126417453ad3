package service

import (
	"encoding/json"
	"reflect"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/repository"
	"smart_assessment_backend/internal/util"
	"testing"
)

func TestQuestionBankServiceSave(t *testing.T) {
	bank := NewQuestionBankService(repository.NewQuestionRepository(newTestDB(t)))

	saved, err := bank.Save(SaveQuestionRequest{ID: "q-1", Text: " What is malware? ", Choices: []string{"Bad software", "A game"}, Answer: 0})
	if err != nil {
		t.Fatal(err)
	}
	if saved.QuestionID != "q-1" || saved.Text != "What is malware?" || saved.Origin != model.QuestionOriginManual {
		t.Fatalf("saved = %+v", saved)
	}
	var choices []string
	if err := json.Unmarshal(saved.Choices, &choices); err != nil || !reflect.DeepEqual(choices, []string{"Bad software", "A game"}) {
		t.Fatalf("choices = %s, %v", saved.Choices, err)
	}

	// 同 id 再次保存为覆盖
	if _, err := bank.Save(SaveQuestionRequest{ID: "q-1", Text: "Updated", Choices: []string{"a", "b", "c"}, Answer: 2}); err != nil {
		t.Fatal(err)
	}
	qs, total, err := bank.List(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || qs[0].Text != "Updated" || qs[0].Answer != 2 {
		t.Fatalf("list = %+v (total %d)", qs, total)
	}

	generated, err := bank.Save(SaveQuestionRequest{Text: "No id", Choices: []string{"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	if generated.QuestionID == "" {
		t.Fatal("id not generated")
	}
}

func TestQuestionBankServiceRejectsInvalid(t *testing.T) {
	bank := NewQuestionBankService(repository.NewQuestionRepository(newTestDB(t)))

	tests := []SaveQuestionRequest{
		{Text: "one choice", Choices: []string{"a"}},
		{Text: "bad answer", Choices: []string{"a", "b"}, Answer: 2},
		{Text: "   ", Choices: []string{"a", "b"}},
	}
	for _, req := range tests {
		if _, err := bank.Save(req); !util.IsValidationError(err) {
			t.Errorf("Save(%+v) err = %v", req, err)
		}
	}
}

func TestResultServiceSaveAndSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewResultService(repository.NewResultRepository(db), repository.NewDashboardRepository(db))

	inputs := []SaveResultRequest{
		{ExamTitle: "Safety", Result: ReportedScore{Score: 100, Total: 2, Correct: 2}, StudentID: "st-1"},
		{ExamTitle: "Safety", Result: ReportedScore{Score: 50, Total: 2, Correct: 1}},
		{ExamTitle: "Tools", Result: ReportedScore{Score: 0, Total: 4, Correct: 0, Level: model.LevelNeedsImprovement}},
	}
	var firstID string
	for i, req := range inputs {
		id, err := svc.SaveResult(req)
		if err != nil {
			t.Fatal(err)
		}
		if id == "" {
			t.Fatal("empty id")
		}
		if i == 0 {
			firstID = id
		}
	}

	first, err := svc.GetResult(firstID)
	if err != nil {
		t.Fatal(err)
	}
	if first.Level != model.LevelGood || first.Source != ResultSourceAPI || first.StudentID != "st-1" {
		t.Fatalf("first = %+v", first)
	}

	results, total, err := svc.ListResults(1, 10, "Safety")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("list = %d/%d", len(results), total)
	}

	summary, err := svc.Summary("Safety")
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 2 || summary.AverageScore != 75 {
		t.Fatalf("summary = %+v", summary)
	}
	levels := map[model.Level]int64{}
	for _, l := range summary.Levels {
		levels[l.Level] = l.Count
	}
	if levels[model.LevelGood] != 1 || levels[model.LevelAverage] != 1 {
		t.Fatalf("levels = %v", levels)
	}

	all, err := svc.Summary("")
	if err != nil {
		t.Fatal(err)
	}
	if all.Total != 3 {
		t.Fatalf("overall total = %d", all.Total)
	}
}

func TestResultServiceRejectsInconsistentResults(t *testing.T) {
	db := newTestDB(t)
	svc := NewResultService(repository.NewResultRepository(db), repository.NewDashboardRepository(db))

	tests := map[string]SaveResultRequest{
		"blank title":       {ExamTitle: "   ", Result: ReportedScore{Score: 100, Total: 1, Correct: 1}},
		"negative total":    {ExamTitle: "X", Result: ReportedScore{Score: 0, Total: -1, Correct: 0}},
		"correct above":     {ExamTitle: "X", Result: ReportedScore{Score: 100, Total: 2, Correct: 7}},
		"negative correct":  {ExamTitle: "X", Result: ReportedScore{Score: 0, Total: 2, Correct: -1}},
		"score above 100":   {ExamTitle: "X", Result: ReportedScore{Score: 500, Total: 2, Correct: 2}},
		"score mismatch":    {ExamTitle: "X", Result: ReportedScore{Score: 90, Total: 2, Correct: 1}},
		"unknown level":     {ExamTitle: "X", Result: ReportedScore{Score: 100, Total: 2, Correct: 2, Level: "excellent"}},
		"level mismatch":    {ExamTitle: "X", Result: ReportedScore{Score: 50, Total: 2, Correct: 1, Level: model.LevelGood}},
		"everything broken": {ExamTitle: "X", Result: ReportedScore{Score: 500, Total: 2, Correct: 7, Level: "excellent"}},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.SaveResult(req); !util.IsValidationError(err) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}

	summary, err := svc.Summary("")
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 0 {
		t.Fatalf("rejected results were stored: %+v", summary)
	}
}

func TestResultServiceRoundsLikeScorer(t *testing.T) {
	db := newTestDB(t)
	svc := NewResultService(repository.NewResultRepository(db), repository.NewDashboardRepository(db))

	// 2/3 = 66.67 -> 67，level 省略时补为 average
	id, err := svc.SaveResult(SaveResultRequest{ExamTitle: " Thirds ", Result: ReportedScore{Score: 67, Total: 3, Correct: 2}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetResult(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.ExamTitle != "Thirds" || got.Score != 67 || got.Level != model.LevelAverage {
		t.Fatalf("stored = %+v", got)
	}

	// 0 题视为零分
	if _, err := svc.SaveResult(SaveResultRequest{ExamTitle: "Empty", Result: ReportedScore{}}); err != nil {
		t.Fatalf("empty exam: %v", err)
	}
}
