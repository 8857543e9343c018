package app

import (
	"college_edu_backend/docs"
	"college_edu_backend/internal/config"
	"college_edu_backend/internal/middleware"
	"college_edu_backend/internal/model"

	"college_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerStaffRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/question-types", c.question.ListTypes)
	}
}

// registerStudentRoutes 登录即可访问的接口
func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/user/profile", c.user.UpdateProfile)

	rg.GET("/colleges", c.college.List)
	rg.GET("/colleges/:id", c.college.Get)
	rg.GET("/departments", c.college.ListDepartments)

	rg.GET("/topics", c.topic.List)
	rg.GET("/topics/:id/subtopics", c.topic.ListSubTopics)

	rg.GET("/assignments", c.assignment.List)
	rg.GET("/assignments/active", c.assignment.ListActive)
	rg.GET("/assignments/:id", c.assignment.Get)

	rg.POST("/attempts", c.attempt.Start)
	rg.POST("/attempts/:id/submit", c.attempt.Submit)
	rg.GET("/attempts/my", c.attempt.ListMy)
	rg.GET("/attempts/:id", c.attempt.Get)
}

// registerStaffRoutes 教职工接口，管理员同样放行
func (a *App) registerStaffRoutes(rg *gin.RouterGroup, c *controllers) {
	staff := rg.Group("/staff")
	staff.Use(middleware.RoleMiddleware(model.Staff))
	{
		staff.POST("/topics", c.topic.Create)
		staff.PUT("/topics/:id", c.topic.Update)
		staff.DELETE("/topics/:id", c.topic.Delete)
		staff.POST("/topics/:id/subtopics", c.topic.CreateSubTopic)
		staff.DELETE("/subtopics/:id", c.topic.DeleteSubTopic)

		staff.POST("/assignments", c.assignment.Create)
		staff.DELETE("/assignments/:id", c.assignment.Delete)

		// 题库表格导入
		staff.POST("/questions/import/assignment", c.question.ImportToAssignment)
		staff.POST("/questions/import/subtopic", c.question.ImportToSubTopic)
		staff.GET("/questions/uploads", c.question.ListUploads)

		staff.POST("/questions", c.question.Create)
		staff.PUT("/questions/:id", c.question.Update)
		staff.DELETE("/questions/:id", c.question.Delete)

		staff.GET("/marks/summary", c.attempt.MarksSummary)
	}

	// 题目浏览：学生通过作答接口拿到的是剥离答案的视图，
	// 原始题目列表仅教职工可见
	questions := rg.Group("/questions")
	questions.Use(middleware.RoleMiddleware(model.Staff))
	{
		questions.GET("", c.question.ListByScope)
	}
}

// registerAdminRoutes 管理员接口
func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.List)
		admin.PATCH("/users/:id/disabled", c.user.SetDisabled)

		admin.POST("/colleges", c.college.Create)
		admin.PUT("/colleges/:id", c.college.Update)
		admin.DELETE("/colleges/:id", c.college.Delete)
		admin.POST("/departments", c.college.CreateDepartment)
		admin.PUT("/departments/:id", c.college.UpdateDepartment)
		admin.DELETE("/departments/:id", c.college.DeleteDepartment)
	}
}
