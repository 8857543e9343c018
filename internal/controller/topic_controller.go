package controller

import (
	"college_edu_backend/internal/service"
	"college_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	Service *service.TopicService
}

func NewTopicController(svc *service.TopicService) *TopicController {
	return &TopicController{Service: svc}
}

// @Summary 创建主题
// @Tags 主题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TopicRequest true "主题信息"
// @Success 201 {object} util.Response
// @Router /api/staff/topics [post]
func (c *TopicController) Create(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.Service.Create(req)
	if err != nil {
		if errors.Is(err, util.ErrDepartmentNotFound) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// @Summary 主题列表
// @Tags 主题
// @Produce json
// @Security ApiKeyAuth
// @Param departmentId query int false "院系过滤"
// @Success 200 {object} util.Response
// @Router /api/topics [get]
func (c *TopicController) List(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	topics, total, err := c.Service.List(util.MustParseUint(ctx.Query("departmentId")), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: topics, Total: total, Page: page, Limit: limit})
}

// @Summary 更新主题
// @Tags 主题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param body body service.TopicRequest true "主题信息"
// @Success 200 {object} util.Response
// @Router /api/staff/topics/{id} [put]
func (c *TopicController) Update(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.Service.Update(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// @Summary 删除主题
// @Tags 主题
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/staff/topics/{id} [delete]
func (c *TopicController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 创建子主题
// @Tags 主题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param body body service.SubTopicRequest true "子主题信息"
// @Success 201 {object} util.Response
// @Router /api/staff/topics/{id}/subtopics [post]
func (c *TopicController) CreateSubTopic(ctx *gin.Context) {
	var req service.SubTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	st, err := c.Service.CreateSubTopic(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, st)
}

// @Summary 子主题列表
// @Tags 主题
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/topics/{id}/subtopics [get]
func (c *TopicController) ListSubTopics(ctx *gin.Context) {
	sts, err := c.Service.ListSubTopics(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sts)
}

// @Summary 删除子主题
// @Tags 主题
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "子主题ID"
// @Success 200 {object} util.Response
// @Router /api/staff/subtopics/{id} [delete]
func (c *TopicController) DeleteSubTopic(ctx *gin.Context) {
	if err := c.Service.DeleteSubTopic(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
