package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/handler"
	"github.com/user/moviedash/internal/middleware"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/repository"
	"github.com/user/moviedash/internal/router"
	"github.com/user/moviedash/internal/service"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	// 数据库不可用时服务照常启动，接口返回空结果和错误信息
	loader, closeDB := openMovieLoader(cfg)
	defer closeDB()

	dashboard := service.NewDashboardService(loader, cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	service.NewSnapshotRefresher(dashboard, cfg.SnapshotRefresh).Start(ctx)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Logger("/health"))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	h := handler.NewHandler(cfg, dashboard)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}

// openMovieLoader 连接失败时返回一个始终报错的读取器
func openMovieLoader(cfg *config.Config) (service.MovieLoader, func()) {
	db, err := repository.InitDB(cfg.DatabaseURL, 10)
	if err != nil {
		log.Printf("数据库连接失败: %v", err)
		return unavailableLoader{err: err}, func() {}
	}

	sqlDB, _ := db.DB()
	repos := repository.NewRepositories(db, cfg.QualifiedTable())
	return repos.Movie, func() { sqlDB.Close() }
}

type unavailableLoader struct {
	err error
}

func (l unavailableLoader) FindAll(ctx context.Context) ([]model.Movie, error) {
	return nil, l.err
}
