package api

import (
	"context"

	"localfood/internal/app/config"
	"localfood/internal/app/dsn"
	"localfood/internal/app/handler"
	"localfood/internal/app/middleware"
	"localfood/internal/app/redis"
	"localfood/internal/app/repository"
	"localfood/internal/app/service"
	"localfood/internal/app/storage"
	"localfood/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer собирает все зависимости приложения и запускает HTTP-сервер
func StartServer() {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatalf("error initializing repository: %v", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("error initializing redis client: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Bucket,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		// Без MinIO сервис работает, но без загрузки изображений
		logrus.Errorf("error initializing minio client: %v", err)
	}

	basket := service.NewBasket(repo, repo)
	account := service.NewAccount(repo)

	authHandler := handler.NewAuthHandler(account, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, basket, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	apiHandler.RegisterAPIRoutes(router, authMiddleware)

	app := pkg.NewApp(cfg, router)
	app.RunApp()
}
