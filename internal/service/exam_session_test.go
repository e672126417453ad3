package service

import (
	"errors"
	"reflect"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"testing"
)

func twoQuestionExam() model.Exam {
	return model.Exam{
		ID:    "exam-1",
		Title: "Two questions",
		Questions: []model.Question{
			{ID: "q1", Text: "1 + 1?", Choices: []string{"1", "2", "3"}, CorrectIndex: 1},
			{ID: "q2", Text: "Sky colour?", Choices: []string{"Blue", "Green"}, CorrectIndex: 0},
		},
	}
}

func TestExamSessionScenarios(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]int
		want    model.Result
	}{
		{"both correct", map[string]int{"q1": 1, "q2": 0}, model.Result{Score: 100, Correct: 2, Total: 2, Level: model.LevelGood}},
		{"one correct", map[string]int{"q1": 1, "q2": 1}, model.Result{Score: 50, Correct: 1, Total: 2, Level: model.LevelAverage}},
		{"none answered", nil, model.Result{Score: 0, Correct: 0, Total: 2, Level: model.LevelNeedsImprovement}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewExamSession("s1")
			s.Start(twoQuestionExam())
			for qid, idx := range tt.answers {
				if err := s.Choose(qid, idx); err != nil {
					t.Fatalf("Choose(%s, %d): %v", qid, idx, err)
				}
			}
			got, err := s.Submit()
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if got != tt.want {
				t.Errorf("Submit() = %+v, want %+v", got, tt.want)
			}
			if s.State() != model.SessionSubmitted {
				t.Errorf("state = %s, want submitted", s.State())
			}
			if r, ok := s.Result(); !ok || r != tt.want {
				t.Errorf("Result() = %+v, %v", r, ok)
			}
		})
	}
}

func TestExamSessionChooseOverwrites(t *testing.T) {
	s := NewExamSession("s1")
	s.Start(twoQuestionExam())

	if err := s.Choose("q1", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Choose("q1", 1); err != nil {
		t.Fatal(err)
	}
	if got := s.Answers()["q1"]; got != 1 {
		t.Fatalf("answer = %d, want 1", got)
	}
	if s.State() != model.SessionAnswering {
		t.Fatalf("state = %s, want answering", s.State())
	}
}

func TestExamSessionChooseRejectsWithoutMutation(t *testing.T) {
	s := NewExamSession("s1")
	s.Start(twoQuestionExam())
	if err := s.Choose("q1", 2); err != nil {
		t.Fatal(err)
	}
	before := s.Answers()

	tests := []struct {
		name  string
		qid   string
		index int
		field string
	}{
		{"unknown question", "nope", 0, "questionId"},
		{"negative index", "q1", -1, "choiceIndex"},
		{"index past end", "q2", 2, "choiceIndex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Choose(tt.qid, tt.index)
			var ve *util.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %s, want %s", ve.Field, tt.field)
			}
			if !reflect.DeepEqual(s.Answers(), before) {
				t.Errorf("answers changed: %v -> %v", before, s.Answers())
			}
		})
	}
}

func TestExamSessionStateMachine(t *testing.T) {
	s := NewExamSession("s1")
	if s.State() != model.SessionEmpty {
		t.Fatalf("new session state = %s", s.State())
	}
	if err := s.Choose("q1", 0); !errors.Is(err, util.ErrSessionNotStarted) {
		t.Fatalf("Choose on empty session: %v", err)
	}
	if _, err := s.Submit(); !errors.Is(err, util.ErrSessionNotStarted) {
		t.Fatalf("Submit on empty session: %v", err)
	}

	s.Start(twoQuestionExam())
	if s.State() != model.SessionLoaded {
		t.Fatalf("state after start = %s", s.State())
	}
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if err := s.Choose("q1", 1); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("Choose after submit: %v", err)
	}
	if _, err := s.Submit(); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("second Submit: %v", err)
	}

	// 交卷后可以重新开始
	s.Start(twoQuestionExam())
	if s.State() != model.SessionLoaded || len(s.Answers()) != 0 {
		t.Fatalf("restart did not reset session: %s %v", s.State(), s.Answers())
	}
	if _, ok := s.Result(); ok {
		t.Fatal("result kept after restart")
	}
}

func TestExamSessionStartWithEmptyExamUsesDefault(t *testing.T) {
	s := NewExamSession("s1")
	s.Start(model.Exam{ID: "empty", Title: "Nothing here"})

	if !reflect.DeepEqual(s.Exam(), DefaultExam()) {
		t.Fatalf("exam = %+v, want default exam", s.Exam())
	}
	if err := DefaultExam().Validate(); err != nil {
		t.Fatalf("default exam is not well-formed: %v", err)
	}
}

func TestRestoreSessionRoundTrip(t *testing.T) {
	s := NewExamSession("s1")
	s.Start(twoQuestionExam())
	s.SetOrigin(string(OriginCatalog))
	if err := s.Choose("q2", 0); err != nil {
		t.Fatal(err)
	}

	restored := RestoreSession(s.Snapshot())
	if !reflect.DeepEqual(restored.Snapshot(), s.Snapshot()) {
		t.Fatalf("snapshot mismatch:\n%+v\n%+v", restored.Snapshot(), s.Snapshot())
	}

	// 快照之间不共享作答
	snap := s.Snapshot()
	snap.Answers["q1"] = 1
	if _, ok := s.Answers()["q1"]; ok {
		t.Fatal("snapshot answers alias session answers")
	}
}
