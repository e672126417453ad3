package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/repository"
	"smart_assessment_backend/internal/util"
	"smart_assessment_backend/pkg/logger"
	"smart_assessment_backend/pkg/monitoring"
	"smart_assessment_backend/pkg/tracing"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ResultSink 成绩上报目标，失败由调用方吞掉
type ResultSink interface {
	Push(ctx context.Context, examTitle string, result model.Result) error
	Name() string
}

// ResultReport 上报格式 {exam_title, result:{score,total,correct}}
type ResultReport struct {
	ExamTitle string         `json:"exam_title"`
	Result    ReportedResult `json:"result"`
}

type ReportedResult struct {
	Score   int `json:"score"`
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

func NewResultReport(examTitle string, result model.Result) ResultReport {
	return ResultReport{
		ExamTitle: examTitle,
		Result: ReportedResult{
			Score:   result.Score,
			Total:   result.Total,
			Correct: result.Correct,
		},
	}
}

// HTTPResultSink 把成绩 POST 到外部成绩库，响应内容忽略
type HTTPResultSink struct {
	endpoint string
	client   *http.Client
}

func NewHTTPResultSink(endpoint string, client *http.Client) *HTTPResultSink {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPResultSink{endpoint: endpoint, client: client}
}

func (s *HTTPResultSink) Name() string { return "http" }

func (s *HTTPResultSink) Push(ctx context.Context, examTitle string, result model.Result) error {
	body, err := json.Marshal(NewResultReport(examTitle, result))
	if err != nil {
		return &util.PersistenceError{Sink: s.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return &util.PersistenceError{Sink: s.Name(), Err: err}
	}
	req.Header.Set("Content-Type", util.MimeJSON)

	resp, err := s.client.Do(req)
	if err != nil {
		return &util.PersistenceError{Sink: s.Name(), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &util.PersistenceError{Sink: s.Name(), Err: fmt.Errorf("result store returned status %d", resp.StatusCode)}
	}
	return nil
}

// RepositoryResultSink 直接写入本服务的成绩表
type RepositoryResultSink struct {
	repo *repository.ResultRepository
}

func NewRepositoryResultSink(repo *repository.ResultRepository) *RepositoryResultSink {
	return &RepositoryResultSink{repo: repo}
}

func (s *RepositoryResultSink) Name() string { return "database" }

func (s *RepositoryResultSink) Push(ctx context.Context, examTitle string, result model.Result) error {
	record := &model.StoredResult{
		ExamTitle: examTitle,
		Score:     result.Score,
		Correct:   result.Correct,
		Total:     result.Total,
		Level:     result.Level,
		Source:    ResultSourceSession,
	}
	if err := s.repo.WithContext(ctx).Create(record); err != nil {
		return &util.PersistenceError{Sink: s.Name(), Err: err}
	}
	return nil
}

// ArchiveResultSink 把成绩快照以 JSON 对象写入归档存储
type ArchiveResultSink struct {
	storage StorageProvider
	now     func() time.Time
}

func NewArchiveResultSink(storage StorageProvider) *ArchiveResultSink {
	return &ArchiveResultSink{storage: storage, now: time.Now}
}

func (s *ArchiveResultSink) Name() string { return "archive_" + s.storage.Name() }

type archivedResult struct {
	ExamTitle  string       `json:"exam_title"`
	Result     model.Result `json:"result"`
	ArchivedAt time.Time    `json:"archived_at"`
}

func (s *ArchiveResultSink) Push(ctx context.Context, examTitle string, result model.Result) error {
	now := s.now().UTC()
	data, err := json.Marshal(archivedResult{ExamTitle: examTitle, Result: result, ArchivedAt: now})
	if err != nil {
		return &util.PersistenceError{Sink: s.Name(), Err: err}
	}

	key := fmt.Sprintf("results/%s/%s.json", now.Format("2006/01/02"), model.GenerateUUID())
	if _, err := s.storage.Put(ctx, key, data, util.MimeJSON); err != nil {
		return &util.PersistenceError{Sink: s.Name(), Err: err}
	}
	return nil
}

// ResultDispatcher 异步推送成绩，不重试，不向调用方返回错误
type ResultDispatcher struct {
	sinks   []ResultSink
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewResultDispatcher(timeout time.Duration, sinks ...ResultSink) *ResultDispatcher {
	return &ResultDispatcher{sinks: sinks, timeout: timeout}
}

// Dispatch 立即返回；ctx 只用于关联调用方的 trace
func (d *ResultDispatcher) Dispatch(ctx context.Context, examTitle string, result model.Result) {
	if len(d.sinks) == 0 {
		return
	}

	link := trace.LinkFromContext(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, sink := range d.sinks {
			d.push(sink, link, examTitle, result)
		}
	}()
}

func (d *ResultDispatcher) push(sink ResultSink, link trace.Link, examTitle string, result model.Result) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.ResultSinkTotal.WithLabelValues(sink.Name(), "panic").Inc()
			logger.Log.Error("Result sink panicked", zap.String("sink", sink.Name()), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	ctx, span := tracing.Tracer.Start(ctx, "ResultSink.Push", trace.WithLinks(link))
	defer span.End()
	span.SetAttributes(attribute.String("result_sink.name", sink.Name()))

	if err := sink.Push(ctx, examTitle, result); err != nil {
		monitoring.ResultSinkTotal.WithLabelValues(sink.Name(), "failure").Inc()
		logger.Log.Warn("Result push failed",
			zap.String("sink", sink.Name()),
			zap.String("exam_title", examTitle),
			zap.Error(err),
		)
		return
	}
	monitoring.ResultSinkTotal.WithLabelValues(sink.Name(), "success").Inc()
}

// Close 等待进行中的推送完成，ctx 到期后直接返回
func (d *ResultDispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
