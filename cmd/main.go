package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"target_annotator_v1_202608/internal/controller"
	"target_annotator_v1_202608/internal/model"
	"target_annotator_v1_202608/internal/repository"
	"target_annotator_v1_202608/internal/router"
	"target_annotator_v1_202608/internal/service"
	"target_annotator_v1_202608/internal/task"
	"target_annotator_v1_202608/pkg/database"
	"target_annotator_v1_202608/pkg/redcircle"
	"target_annotator_v1_202608/pkg/utils"
)

func main() {
	// 1. 初始化会话存储
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers, getDurationEnv("FETCH_COOLDOWN", 2*time.Second))

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	SessionRepo repository.SessionRepository
	Cache       *utils.FetchCache
	Services    *Services
	Controllers *router.Controllers
}

// Services 服务集合
type Services struct {
	Session   *service.SessionService
	Projector *service.ProjectorService
	Product   *service.ProductService
	Export    *service.ExportService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化会话存储（默认内存库）
func initDatabase() *gorm.DB {
	return database.InitDB(
		getEnv("ANNOTATOR_DSN", ""),
		&model.AnnotationSession{}, &model.FieldSpec{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- 基础设施 --------
	sessionRepo := repository.NewSessionRepository(db)
	cache := utils.NewFetchCache(getDurationEnv("CACHE_TTL", time.Hour))
	client := redcircle.NewClient(&redcircle.Config{
		BaseURL: getEnv("REDCIRCLE_BASE_URL", redcircle.DefaultBaseURL),
	})

	// -------- 业务服务 --------
	services := &Services{
		Session:   service.NewSessionService(sessionRepo),
		Projector: service.NewProjectorService(),
	}
	services.Product = service.NewProductService(sessionRepo, services.Session, services.Projector, client, cache)
	services.Export = service.NewExportService(sessionRepo, services.Session, services.Projector)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Session:    controller.NewSessionController(services.Session),
		Product:    controller.NewProductController(services.Product),
		Annotation: controller.NewAnnotationController(services.Session, services.Export),
	}

	return &Dependencies{
		DB:          db,
		SessionRepo: sessionRepo,
		Cache:       cache,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	cleanupTask := task.NewCleanupTask(
		deps.Cache,
		deps.Services.Session,
		getDurationEnv("SESSION_TTL", 24*time.Hour),
	)
	cleanupTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r http.Handler) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("✅ 服务已启动: http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ 服务启动失败: %v", err)
		}
	}()

	// 等待退出信号，优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭异常: %v", err)
	}
	log.Println("服务已退出")
}

// ==================== 环境变量 ====================

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("警告: %s=%q 不是合法时长，使用默认值 %s", key, value, fallback)
		return fallback
	}
	return d
}
