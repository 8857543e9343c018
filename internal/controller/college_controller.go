package controller

import (
	"college_edu_backend/internal/service"
	"college_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CollegeController struct {
	Service *service.CollegeService
}

func NewCollegeController(svc *service.CollegeService) *CollegeController {
	return &CollegeController{Service: svc}
}

// @Summary 创建学院
// @Tags 学院与院系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CollegeRequest true "学院信息"
// @Success 201 {object} util.Response
// @Router /api/admin/colleges [post]
func (c *CollegeController) Create(ctx *gin.Context) {
	var req service.CollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	college, err := c.Service.Create(req)
	if err != nil {
		if errors.Is(err, util.ErrDuplicateCode) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, college)
}

// @Summary 学院列表
// @Tags 学院与院系
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/colleges [get]
func (c *CollegeController) List(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	colleges, total, err := c.Service.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: colleges, Total: total, Page: page, Limit: limit})
}

// @Summary 学院详情
// @Tags 学院与院系
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学院ID"
// @Success 200 {object} util.Response
// @Router /api/colleges/{id} [get]
func (c *CollegeController) Get(ctx *gin.Context) {
	college, err := c.Service.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCollegeNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, college)
}

// @Summary 更新学院
// @Tags 学院与院系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学院ID"
// @Param body body service.CollegeRequest true "学院信息"
// @Success 200 {object} util.Response
// @Router /api/admin/colleges/{id} [put]
func (c *CollegeController) Update(ctx *gin.Context) {
	var req service.CollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	college, err := c.Service.Update(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrCollegeNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, college)
}

// @Summary 删除学院
// @Tags 学院与院系
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学院ID"
// @Success 200 {object} util.Response
// @Router /api/admin/colleges/{id} [delete]
func (c *CollegeController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 创建院系
// @Tags 学院与院系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.DepartmentRequest true "院系信息"
// @Success 201 {object} util.Response
// @Router /api/admin/departments [post]
func (c *CollegeController) CreateDepartment(ctx *gin.Context) {
	var req service.DepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	dept, err := c.Service.CreateDepartment(req)
	if err != nil {
		if errors.Is(err, util.ErrCollegeNotFound) || errors.Is(err, util.ErrDuplicateCode) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, dept)
}

// @Summary 院系列表
// @Tags 学院与院系
// @Produce json
// @Security ApiKeyAuth
// @Param collegeId query int false "学院过滤"
// @Success 200 {object} util.Response
// @Router /api/departments [get]
func (c *CollegeController) ListDepartments(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	depts, total, err := c.Service.ListDepartments(util.MustParseUint(ctx.Query("collegeId")), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: depts, Total: total, Page: page, Limit: limit})
}

// @Summary 更新院系
// @Tags 学院与院系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "院系ID"
// @Param body body service.DepartmentRequest true "院系信息"
// @Success 200 {object} util.Response
// @Router /api/admin/departments/{id} [put]
func (c *CollegeController) UpdateDepartment(ctx *gin.Context) {
	var req service.DepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	dept, err := c.Service.UpdateDepartment(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrDepartmentNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dept)
}

// @Summary 删除院系
// @Tags 学院与院系
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "院系ID"
// @Success 200 {object} util.Response
// @Router /api/admin/departments/{id} [delete]
func (c *CollegeController) DeleteDepartment(ctx *gin.Context) {
	if err := c.Service.DeleteDepartment(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
