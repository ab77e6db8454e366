package main

import (
	"context"
	"event_manager/config"
	"event_manager/database"
	"event_manager/handler"
	"event_manager/helper"
	"event_manager/router"
	"event_manager/utils"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func connectRedis() *redis.Client {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		zap.L().Info("REDIS_ADDR not set, inventory feed is local only")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
		DB:       config.ConfigInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unreachable, inventory feed disabled", zap.String("addr", addr), zap.Error(err))
		client.Close()
		return nil
	}
	return client
}

func main() {
	logger := utils.InitLogger(config.ConfigDefault("APP_ENV", "development"))
	defer logger.Sync()

	database.ConnectDB()

	if err := helper.StartEventScheduler(database.DB, config.ConfigDefault("ARCHIVE_SCHEDULE", helper.DefaultArchiveSchedule)); err != nil {
		zap.L().Fatal("could not start scheduler", zap.Error(err))
	}
	defer helper.StopEventScheduler()

	cld, err := helper.InitCloudinary()
	if err != nil {
		zap.L().Warn("cloudinary disabled", zap.Error(err))
	}

	redisClient := connectRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	handler.Init(handler.Options{
		DB:         database.DB,
		Redis:      redisClient,
		Cloudinary: cld,
		SMTP:       utils.SMTPFromEnv(),
	})

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigDefault("CORS_ORIGINS", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Disposition",
		MaxAge:           600,
	}))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	router.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zap.L().Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zap.L().Error("shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + config.ConfigDefault("PORT", "8080")
	zap.L().Info("listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
