package app

import (
	"smart_assessment_backend/docs"
	"smart_assessment_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 试卷
		api.GET("/exams", c.exam.ListExams)
		api.POST("/exams/generate", c.exam.GenerateExam)

		// 测评会话
		sessions := api.Group("/sessions")
		{
			sessions.POST("", c.assessment.StartSession)
			sessions.GET("/:id", c.assessment.GetSession)
			sessions.PUT("/:id/answers", c.assessment.Choose)
			sessions.POST("/:id/submit", c.assessment.Submit)
		}

		api.POST("/generate", c.generation.Generate)

		// 题库
		api.GET("/questions", c.question.ListQuestions)
		api.POST("/questions", c.question.SaveQuestion)

		// 成绩
		api.GET("/results", c.result.ListResults)
		api.POST("/results", c.result.SaveResult)
		api.GET("/results/summary", c.result.Summary)
		api.GET("/results/:id", c.result.GetResult)
	}
}
