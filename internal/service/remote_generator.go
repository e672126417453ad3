package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
)

// 响应体上限，防止异常大的返回
const maxGenerationResponseBytes = 1 << 20

// RemoteGenerator 通过 HTTP 调用出题服务：POST {prompt, n_questions} -> {title, questions}
type RemoteGenerator struct {
	endpoint string
	client   *http.Client
}

func NewRemoteGenerator(endpoint string, client *http.Client) *RemoteGenerator {
	if client == nil {
		client = &http.Client{}
	}
	return &RemoteGenerator{endpoint: endpoint, client: client}
}

func (g *RemoteGenerator) GenerateExam(ctx context.Context, req GenerateRequest) (model.Exam, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.Exam{}, &util.GenerationError{Stage: util.StageTransport, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Exam{}, &util.GenerationError{Stage: util.StageTransport, Err: err}
	}
	httpReq.Header.Set("Content-Type", util.MimeJSON)
	httpReq.Header.Set("Accept", util.MimeJSON)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return model.Exam{}, asGenerationError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxGenerationResponseBytes))
	if err != nil {
		return model.Exam{}, asGenerationError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Exam{}, &util.GenerationError{
			Stage: util.StageStatus,
			Err:   fmt.Errorf("generation service returned status %d", resp.StatusCode),
		}
	}

	return decodeGeneratedExam(data, decodeOptions{})
}
