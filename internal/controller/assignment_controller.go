package controller

import (
	"college_edu_backend/internal/service"
	"college_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Service *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{Service: svc}
}

// @Summary 创建作业
// @Tags 作业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssignmentRequest true "作业信息"
// @Success 201 {object} util.Response
// @Router /api/staff/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	var req service.AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.Service.Create(req, util.GetUserFromContext(ctx).UserID)
	if err != nil {
		if errors.Is(err, util.ErrDepartmentNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, a)
}

// @Summary 作业详情
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	a, err := c.Service.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary 作业列表
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Param departmentId query int false "院系过滤"
// @Success 200 {object} util.Response
// @Router /api/assignments [get]
func (c *AssignmentController) List(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	list, total, err := c.Service.List(util.MustParseUint(ctx.Query("departmentId")), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// @Summary 当前开放的作业
// @Description 只返回当前日期落在起止区间内的作业
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Param departmentId query int true "院系ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/active [get]
func (c *AssignmentController) ListActive(ctx *gin.Context) {
	list, err := c.Service.ListActive(util.MustParseUint(ctx.Query("departmentId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 删除作业
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/staff/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
