package util

import (
	"errors"
	"fmt"
)

var (
	ErrExamNotFound      = errors.New("exam not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotStarted = errors.New("session has no exam loaded")
	ErrSessionSubmitted  = errors.New("session already submitted")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrResultNotFound    = errors.New("result not found")
)

// ValidationError 表示调用方传入的参数不合法，不会修改任何状态
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// 生成失败的阶段
const (
	StageTransport = "transport"
	StageStatus    = "status"
	StageDecode    = "decode"
	StageShape     = "shape"
	StageTimeout   = "timeout"
)

// GenerationError 远程出题失败，由 QuestionSource 内部消化并转为兜底试卷
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("exam generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// PersistenceError 成绩上报失败，只记录日志，不影响调用方
type PersistenceError struct {
	Sink string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("result sink %s failed: %v", e.Sink, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
