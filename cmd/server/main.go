package main

import (
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"newswire/internal/api"
	"newswire/internal/config"
	"newswire/internal/db"
	"newswire/internal/ratelimit"
	"newswire/internal/rest"
	"newswire/internal/soap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}

	// Rate limiting is optional: without REDIS_ADDR the limiter is nil
	// and every request passes.
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter, err = ratelimit.NewFixedWindowLimiter(rdb, "", cfg.RateLimit.Max, cfg.RateLimit.Window())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rate limiter error: %v\n", err)
			os.Exit(1)
		}
		log.Printf("[Main] Rate limiting enabled (%d requests / %d min)", cfg.RateLimit.Max, cfg.RateLimit.WindowMinutes)
	} else {
		log.Printf("[Main] REDIS_ADDR not set, rate limiting disabled")
	}

	restRouter := rest.SetupRouter(cfg, limiter)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.RESTPort)
		log.Printf("[Main] REST/XML service listening on %s", addr)
		if err := restRouter.Run(addr); err != nil {
			fmt.Fprintf(os.Stderr, "REST server error: %v\n", err)
			os.Exit(1)
		}
	}()

	soapRouter := soap.SetupRouter(cfg, limiter)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.SOAPPort)
		log.Printf("[Main] SOAP service listening on %s (WSDL at /soap?wsdl)", addr)
		if err := soapRouter.Run(addr); err != nil {
			fmt.Fprintf(os.Stderr, "SOAP server error: %v\n", err)
			os.Exit(1)
		}
	}()

	apiRouter := api.SetupRouter(cfg, limiter)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Main] API service listening on %s", addr)
	if err := apiRouter.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
