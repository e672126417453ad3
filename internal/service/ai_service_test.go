package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"smart_assessment_backend/internal/config"
	"smart_assessment_backend/internal/util"
	"strings"
	"testing"
)

func chatServer(t *testing.T, status int, content string, seen *ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if seen != nil {
			json.NewDecoder(r.Body).Decode(seen)
		}
		w.WriteHeader(status)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "test-model",
		MaxTokens:   500,
		Temperature: 0.2,
		Language:    "English",
	}
}

func TestAIServiceDemoMode(t *testing.T) {
	svc := NewAIService(config.AIConfig{}, nil)

	exam, err := svc.GenerateExam(context.Background(), GenerateRequest{Prompt: "Email safety", NQuestions: 30})
	if err != nil {
		t.Fatal(err)
	}
	if len(exam.Questions) != util.MaxQuestionCount {
		t.Fatalf("questions = %d, want %d", len(exam.Questions), util.MaxQuestionCount)
	}
	if exam.Title != "AI: Email safety" {
		t.Errorf("title = %q", exam.Title)
	}
	for _, q := range exam.Questions {
		if len(q.Choices) != 4 || q.CorrectIndex != 0 {
			t.Fatalf("demo question = %+v", q)
		}
	}
	if err := exam.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestAIServiceExtractsJSONFromModelOutput(t *testing.T) {
	content := "Here you go:\n```json\n" +
		`{"title":"Passwords","questions":[{"text":"Best password?","choices":["1234","P@ss-w0rd-long","name","qwerty"],"answer":1}]}` +
		"\n```\nGood luck!"

	var seen ChatCompletionRequest
	srv := chatServer(t, http.StatusOK, content, &seen)
	svc := NewAIService(testAIConfig(srv.URL), srv.Client())

	exam, err := svc.GenerateExam(context.Background(), GenerateRequest{Prompt: "passwords", NQuestions: 1})
	if err != nil {
		t.Fatal(err)
	}
	if exam.Title != "Passwords" || len(exam.Questions) != 1 {
		t.Fatalf("exam = %+v", exam)
	}
	if exam.Questions[0].ID == "" {
		t.Error("missing id not filled")
	}
	if exam.Questions[0].CorrectIndex != 1 {
		t.Errorf("answer = %d", exam.Questions[0].CorrectIndex)
	}

	if seen.Model != "test-model" || len(seen.Messages) != 2 {
		t.Errorf("request = %+v", seen)
	}
	if !strings.Contains(seen.Messages[1].Content, "Difficulty: medium") {
		t.Errorf("user prompt = %q", seen.Messages[1].Content)
	}
}

func TestAIServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		stage   string
	}{
		{"api error", http.StatusUnauthorized, "", util.StageStatus},
		{"no json", http.StatusOK, "I cannot help with that.", util.StageDecode},
		{"choices not a list", http.StatusOK, `{"title":"x","questions":[{"text":"t","choices":"a,b","answer":0}]}`, util.StageDecode},
		{"answer not an int", http.StatusOK, `{"title":"x","questions":[{"text":"t","choices":["a","b"],"answer":"b"}]}`, util.StageDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.status, tt.content, nil)
			svc := NewAIService(testAIConfig(srv.URL), srv.Client())

			_, err := svc.GenerateExam(context.Background(), GenerateRequest{Prompt: "x"})
			var ge *util.GenerationError
			if !errors.As(err, &ge) {
				t.Fatalf("err = %v, want GenerationError", err)
			}
			if ge.Stage != tt.stage {
				t.Errorf("stage = %s, want %s", ge.Stage, tt.stage)
			}
		})
	}
}

func TestAIServiceUpdateConfig(t *testing.T) {
	svc := NewAIService(config.AIConfig{}, nil)
	svc.UpdateConfig(testAIConfig("http://example.invalid"))
	if got := svc.currentConfig().Model; got != "test-model" {
		t.Fatalf("model = %s", got)
	}
}

// failingBody 读到一半断开的响应体
type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (failingBody) Close() error             { return nil }

func TestAIServiceResponseBody(t *testing.T) {
	tests := []struct {
		name  string
		body  func() io.ReadCloser
		stage string
	}{
		{"read error", func() io.ReadCloser { return failingBody{} }, util.StageTransport},
		{"oversized body is cut off", func() io.ReadCloser {
			reply := `{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`
			return io.NopCloser(strings.NewReader(strings.Repeat(" ", maxGenerationResponseBytes) + reply))
		}, util.StageDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: tt.body()}, nil
			})}
			svc := NewAIService(testAIConfig("http://ai.local"), client)

			_, err := svc.GenerateExam(context.Background(), GenerateRequest{Prompt: "x"})
			var ge *util.GenerationError
			if !errors.As(err, &ge) || ge.Stage != tt.stage {
				t.Fatalf("err = %v, want stage %s", err, tt.stage)
			}
		})
	}
}
