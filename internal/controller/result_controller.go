package controller

import (
	"smart_assessment_backend/internal/service"
	"smart_assessment_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pagination 读取 page/limit，非法值回退到默认
func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

type ResultController struct {
	Service *service.ResultService
}

func NewResultController(svc *service.ResultService) *ResultController {
	return &ResultController{Service: svc}
}

// @Summary 上报成绩
// @Tags 成绩
// @Accept json
// @Produce json
// @Param body body service.SaveResultRequest true "成绩"
// @Success 201 {object} util.Response
// @Router /api/results [post]
func (c *ResultController) SaveResult(ctx *gin.Context) {
	var req service.SaveResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id, err := c.Service.SaveResult(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"status": "ok", "id": id})
}

// @Summary 成绩列表
// @Tags 成绩
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param examTitle query string false "试卷标题"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	page, limit := pagination(ctx)

	results, total, err := c.Service.ListResults(page, limit, ctx.Query("examTitle"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  results,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 成绩详情
// @Tags 成绩
// @Produce json
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response
// @Router /api/results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	res, err := c.Service.GetResult(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 成绩统计
// @Tags 成绩
// @Produce json
// @Param examTitle query string false "试卷标题"
// @Success 200 {object} util.Response
// @Router /api/results/summary [get]
func (c *ResultController) Summary(ctx *gin.Context) {
	summary, err := c.Service.Summary(ctx.Query("examTitle"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
