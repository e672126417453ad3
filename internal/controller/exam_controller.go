package controller

import (
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/service"
	"smart_assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Source *service.QuestionSource
}

func NewExamController(source *service.QuestionSource) *ExamController {
	return &ExamController{Source: source}
}

// @Summary 预置试卷列表
// @Tags 试卷
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	catalog := c.Source.Catalog()
	exams := make([]model.PublicExam, len(catalog))
	for i, exam := range catalog {
		exams[i] = exam.Public()
	}
	util.Success(ctx, exams)
}

type GenerateExamRequest struct {
	Prompt     string `json:"prompt"`
	NQuestions int    `json:"nQuestions"`
}

type GenerateExamResponse struct {
	Exam         model.Exam `json:"exam"`
	Origin       string     `json:"origin"`
	Degraded     bool       `json:"degraded"`
	FailureStage string     `json:"failureStage,omitempty"`
}

// @Summary 按主题出题
// @Description 出题失败时返回兜底试卷，origin 为 fallback
// @Tags 试卷
// @Accept json
// @Produce json
// @Param body body GenerateExamRequest true "出题参数"
// @Success 200 {object} util.Response
// @Router /api/exams/generate [post]
func (c *ExamController) GenerateExam(ctx *gin.Context) {
	var req GenerateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome := c.Source.Generate(ctx.Request.Context(), req.Prompt, req.NQuestions)
	resp := GenerateExamResponse{
		Exam:     outcome.Exam,
		Origin:   string(outcome.Origin),
		Degraded: outcome.Degraded(),
	}
	if outcome.Err != nil {
		resp.FailureStage = outcome.Err.Stage
	}
	util.Success(ctx, resp)
}
