package controller

import (
	"college_edu_backend/internal/ingest"
	"college_edu_backend/internal/service"
	"college_edu_backend/internal/util"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary 导入作业题目表格
// @Description 上传 xlsx 文件，整体解析后在单个事务内写入指定作业
// @Tags 题目
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "题目表格文件"
// @Param departmentId formData int true "院系ID"
// @Param assignmentNumber formData int true "作业编号"
// @Param topicName formData string true "主题名称"
// @Param startDate formData string true "开始日期 2006-01-02"
// @Param endDate formData string true "结束日期 2006-01-02"
// @Param continueOnRowError formData bool false "逐行容错模式"
// @Success 200 {object} service.ImportResult
// @Failure 422 {object} util.Response
// @Router /api/staff/questions/import/assignment [post]
func (c *QuestionController) ImportToAssignment(ctx *gin.Context) {
	var req service.AssignmentImportRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.runImport(ctx, func(fileName string, src io.Reader) (*service.ImportResult, error) {
		return c.Service.ImportToAssignment(ctx.Request.Context(), req, fileName, src, util.GetUserFromContext(ctx).UserID)
	})
}

// @Summary 导入子主题题目表格
// @Description 上传 xlsx 文件，整体解析后在单个事务内写入指定子主题
// @Tags 题目
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "题目表格文件"
// @Param departmentId formData int true "院系ID"
// @Param topicName formData string true "主题名称"
// @Param subTopicName formData string true "子主题名称"
// @Param continueOnRowError formData bool false "逐行容错模式"
// @Success 200 {object} service.ImportResult
// @Failure 422 {object} util.Response
// @Router /api/staff/questions/import/subtopic [post]
func (c *QuestionController) ImportToSubTopic(ctx *gin.Context) {
	var req service.SubTopicImportRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.runImport(ctx, func(fileName string, src io.Reader) (*service.ImportResult, error) {
		return c.Service.ImportToSubTopic(ctx.Request.Context(), req, fileName, src, util.GetUserFromContext(ctx).UserID)
	})
}

func (c *QuestionController) runImport(ctx *gin.Context, do func(string, io.Reader) (*service.ImportResult, error)) {
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	// MIME 嗅探会消耗读取位置，校验后重新打开
	sniff, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ok := util.IsSpreadsheet(sniff)
	sniff.Close()
	if !ok {
		util.BadRequest(ctx, "file must be an xlsx spreadsheet")
		return
	}

	src, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	result, err := do(header.Filename, src)
	if err != nil {
		c.writeImportError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// writeImportError 将导入流水线的错误映射到 HTTP 状态码
func (c *QuestionController) writeImportError(ctx *gin.Context, err error) {
	var missing *service.MissingRequiredFieldError
	if errors.As(err, &missing) {
		util.BadRequest(ctx, missing.Error())
		return
	}
	if errors.Is(err, util.ErrDepartmentNotFound) || errors.Is(err, util.ErrTopicNotFound) {
		util.NotFound(ctx)
		return
	}
	if errors.Is(err, ingest.ErrEmptyInput) {
		util.BadRequest(ctx, "spreadsheet contains no data rows")
		return
	}
	if errors.Is(err, ingest.ErrMalformedInput) {
		util.BadRequest(ctx, err.Error())
		return
	}
	var batch *ingest.BatchError
	if errors.As(err, &batch) {
		util.UnprocessableEntity(ctx, batch.Error())
		return
	}
	util.LogInternalError(ctx, err)
}

// @Summary 手工创建单题
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/staff/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		var invalid *ingest.InvalidQuestionTypeError
		if errors.As(err, &invalid) || errors.Is(err, util.ErrScopeRequired) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 更新题目
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 200 {object} util.Response
// @Router /api/staff/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.UpdateQuestion(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		var invalid *ingest.InvalidQuestionTypeError
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.As(err, &invalid):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, q)
}

// @Summary 按范围列出题目
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param scope query string true "assignment 或 sub_topic"
// @Param referenceId query int true "作业或子主题ID"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) ListByScope(ctx *gin.Context) {
	kind := ingest.ScopeKind(ctx.Query("scope"))
	questions, err := c.Service.ListByScope(kind, util.MustParseUint(ctx.Query("referenceId")))
	if err != nil {
		if errors.Is(err, util.ErrScopeRequired) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 删除题目
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/staff/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	if err := c.Service.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 导入记录列表
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param scope query string true "assignment 或 sub_topic"
// @Param referenceId query int true "作业或子主题ID"
// @Success 200 {object} util.Response
// @Router /api/staff/questions/uploads [get]
func (c *QuestionController) ListUploads(ctx *gin.Context) {
	uploads, err := c.Service.ListUploads(ctx.Query("scope"), util.MustParseUint(ctx.Query("referenceId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, uploads)
}

// @Summary 题型列表
// @Tags 题目
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/question-types [get]
func (c *QuestionController) ListTypes(ctx *gin.Context) {
	types, err := c.Service.ListTypes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, types)
}
