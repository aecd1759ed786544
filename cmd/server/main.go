package main

import (
	"log"

	"github.com/amankumarsingh77/cloud-video-stream/internal/config"
	"github.com/amankumarsingh77/cloud-video-stream/internal/server"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/clerk"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/db/aws"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/db/postgres"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/db/redis"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
)

func main() {
	log.Println("Starting server")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	s3Client, presignClient, err := aws.NewAWSClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	verifier, err := clerk.NewClerk(cfg.Auth.ClerkDomain)
	if err != nil {
		appLogger.Fatalf("could not build token verifier: %s", err)
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, verifier, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Fatalf("could not start server: %s", err)
	}
}
