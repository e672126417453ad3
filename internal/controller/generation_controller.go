package controller

import (
	"context"
	"net/http"
	"smart_assessment_backend/internal/service"
	"smart_assessment_backend/internal/util"
	"smart_assessment_backend/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GenerationController struct {
	AI   service.ExamGenerator
	Bank *service.QuestionBankService
	// Timeout 每次请求读取，配置热加载后立即生效；返回 <=0 表示不限时
	Timeout func() time.Duration
}

func NewGenerationController(ai service.ExamGenerator, bank *service.QuestionBankService, timeout func() time.Duration) *GenerationController {
	return &GenerationController{AI: ai, Bank: bank, Timeout: timeout}
}

// @Summary AI 出题
// @Description 未配置 API Key 时返回示例题目
// @Tags 出题
// @Accept json
// @Produce json
// @Param body body service.GenerateRequest true "出题参数"
// @Success 200 {object} util.Response
// @Router /api/generate [post]
func (c *GenerationController) Generate(ctx *gin.Context) {
	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.NQuestions <= 0 {
		req.NQuestions = util.DefaultQuestionCount
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	reqCtx := ctx.Request.Context()
	if c.Timeout != nil {
		if d := c.Timeout(); d > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(reqCtx, d)
			defer cancel()
		}
	}

	exam, err := c.AI.GenerateExam(reqCtx, req)
	if err != nil {
		logger.Log.Error("AI generation failed", zap.Error(err))
		util.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	if c.Bank != nil {
		if err := c.Bank.StoreGenerated(exam); err != nil {
			logger.Log.Warn("Failed to store generated questions", zap.Error(err))
		}
	}

	util.Success(ctx, service.ToGeneratedExam(exam))
}
