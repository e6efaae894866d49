package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"target_annotator_v1_202608/internal/controller"
	"target_annotator_v1_202608/internal/middleware"

	_ "target_annotator_v1_202608/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Session    *controller.SessionController
	Product    *controller.ProductController
	Annotation *controller.AnnotationController
}

// SetupRouter 注册所有路由
// fetchCooldown: 抓取接口的会话级冷却时间，<=0 不限流
func SetupRouter(ctl *Controllers, fetchCooldown time.Duration) *gin.Engine {
	r := gin.Default()

	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		sessions := api.Group("/sessions")
		{
			// 会话生命周期
			sessions.POST("", ctl.Session.CreateSession)
			sessions.GET("/:id", ctl.Session.GetSession)
			sessions.PUT("/:id/credential", ctl.Session.SetCredential)

			// 抓取（带冷却）+ 详情视图 ("Product Details" 标签页)
			sessions.POST("/:id/fetch", middleware.FetchCooldown(fetchCooldown), ctl.Product.Fetch)
			sessions.GET("/:id/details", ctl.Product.Details)

			// 注释视图 ("Annotations" 标签页)：字段表 + 导出
			sessions.GET("/:id/fields", ctl.Annotation.ListFields)
			sessions.POST("/:id/fields", ctl.Annotation.AddField)
			sessions.PUT("/:id/fields/:name", ctl.Annotation.ToggleField)
			sessions.DELETE("/:id/fields/:name", ctl.Annotation.RemoveField)
			sessions.POST("/:id/export", ctl.Annotation.Export)
		}
	}

	return r
}
