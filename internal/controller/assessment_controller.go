package controller

import (
	"smart_assessment_backend/internal/service"
	"smart_assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

// @Summary 开始测评
// @Description examId、generate、exam 三选一
// @Tags 测评会话
// @Accept json
// @Produce json
// @Param body body service.StartSessionRequest true "试卷来源"
// @Success 201 {object} util.Response
// @Router /api/sessions [post]
func (c *AssessmentController) StartSession(ctx *gin.Context) {
	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.StartSession(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary 查看会话
// @Tags 测评会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [get]
func (c *AssessmentController) GetSession(ctx *gin.Context) {
	view, err := c.Service.GetSession(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type ChooseRequest struct {
	QuestionID  string `json:"questionId" binding:"required"`
	ChoiceIndex *int   `json:"choiceIndex" binding:"required"`
}

// @Summary 作答
// @Description 同一题重复作答以最后一次为准
// @Tags 测评会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param body body ChooseRequest true "选项"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/answers [put]
func (c *AssessmentController) Choose(ctx *gin.Context) {
	var req ChooseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.Choose(ctx.Request.Context(), ctx.Param("id"), req.QuestionID, *req.ChoiceIndex)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 交卷
// @Tags 测评会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/submit [post]
func (c *AssessmentController) Submit(ctx *gin.Context) {
	result, err := c.Service.Submit(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
