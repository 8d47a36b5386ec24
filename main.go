package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/HydraItalia/hydra-sub002/configs"
	"github.com/HydraItalia/hydra-sub002/middlewares"
	"github.com/HydraItalia/hydra-sub002/pkg/logger"
	"github.com/HydraItalia/hydra-sub002/routes"
	"github.com/HydraItalia/hydra-sub002/services"
)

func main() {
	cfg := configs.LoadConfig()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()

	// migrate + seed
	configs.SetupDatabase()
	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if err := configs.SeedDemoCatalog(cfg.Env); err != nil {
		log.Fatalf("seed catalog failed: %v", err)
	}

	// processor: sandbox นอก production (ตัวจริงเสียบผ่าน interface)
	var processor services.PaymentProcessor = services.NewSandboxProcessor(zlog)

	// HTTP
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	routes.RegisterRoutes(r, db, cfg, processor, zlog)

	addr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
