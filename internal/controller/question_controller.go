package controller

import (
	"smart_assessment_backend/internal/service"
	"smart_assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionBankService
}

func NewQuestionController(svc *service.QuestionBankService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary 保存题目
// @Tags 题库
// @Accept json
// @Produce json
// @Param body body service.SaveQuestionRequest true "题目"
// @Success 201 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) SaveQuestion(ctx *gin.Context) {
	var req service.SaveQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.Save(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 题库列表
// @Tags 题库
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page, limit := pagination(ctx)

	qs, total, err := c.Service.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  qs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
