package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/repository"
	"github.com/user/moviedash/internal/service"
	"github.com/user/moviedash/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()
	if cfg.TMDB.APIKey == "" {
		log.Fatal("缺少 TMDB_API_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 同步任务串行执行，一个连接足够
	db, err := repository.InitDB(cfg.DatabaseURL, 1)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	repos := repository.NewRepositories(db, cfg.QualifiedTable())
	tmdb := service.NewTMDBService(cfg.TMDB)
	ingest := service.NewIngestService(tmdb, repos.Movie, cfg)

	log.Printf("[Ingest] 开始同步，地区 %s，写入 %s", tmdb.Region(), repos.Movie.Table())
	report, err := ingest.Run(ctx)
	if err != nil {
		var fetchErr *utils.FetchError
		if errors.As(err, &fetchErr) {
			log.Printf("[Ingest] TMDB 返回 %d: %s", fetchErr.StatusCode, fetchErr.Body)
		}
		sqlDB.Close()
		log.Fatalf("[Ingest] 同步失败: %v", err)
	}

	total, err := repos.Movie.Count(ctx)
	if err != nil {
		log.Printf("[Ingest] 统计行数失败: %v", err)
	} else {
		log.Printf("[Ingest] 表中共 %d 部影片", total)
	}
	for _, f := range report.Failed {
		log.Printf("[Ingest] 跳过 MovieID %d: %s", f.MovieID, f.Error)
	}
}
