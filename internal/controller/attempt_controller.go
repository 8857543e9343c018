package controller

import (
	"college_edu_backend/internal/ingest"
	"college_edu_backend/internal/model"
	"college_edu_backend/internal/service"
	"college_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// @Summary 发起作答
// @Description 按作业或子主题发起一次作答，返回剥离答案的题目列表
// @Tags 作答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.StartAttemptRequest true "作答范围"
// @Success 201 {object} util.Response
// @Router /api/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	var req service.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.StartAttempt(util.GetUserFromContext(ctx).UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrScopeRequired), errors.Is(err, util.ErrAssignmentNotActive):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrAssignmentNotFound), errors.Is(err, util.ErrSubTopicNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, resp)
}

// @Summary 提交作答
// @Tags 作答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作答ID"
// @Param body body service.SubmitAttemptRequest true "答案列表"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.SubmitAttempt(util.GetUserFromContext(ctx).UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAttemptCompleted):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resp)
}

// @Summary 我的作答记录
// @Tags 作答
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/attempts/my [get]
func (c *AttemptController) ListMy(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	list, total, err := c.Service.ListMyAttempts(util.GetUserFromContext(ctx).UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// @Summary 作答详情
// @Tags 作答
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	isStaff := claims.Role == model.Staff || claims.Role == model.Admin
	attempt, answers, err := c.Service.GetAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")), isStaff)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"attempt": attempt, "answers": answers})
}

// @Summary 成绩汇总
// @Description 按作业或子主题聚合已完成作答的得分统计
// @Tags 作答
// @Produce json
// @Security ApiKeyAuth
// @Param scope query string true "assignment 或 sub_topic"
// @Param referenceId query int true "作业或子主题ID"
// @Success 200 {object} util.Response
// @Router /api/staff/marks/summary [get]
func (c *AttemptController) MarksSummary(ctx *gin.Context) {
	kind := ingest.ScopeKind(ctx.Query("scope"))
	summary, err := c.Service.MarksSummary(ctx.Request.Context(), kind, util.MustParseUint(ctx.Query("referenceId")))
	if err != nil {
		if errors.Is(err, util.ErrScopeRequired) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
