// Command token mints an access token for a user id, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"

	"cashmesh/internal/config"
	"cashmesh/internal/logger"
	"cashmesh/internal/middleware"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Token error: %v", err)
	}
}

func run() error {
	userID := flag.Uint("user", 0, "user id the token acts as")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRES_IN)")
	flag.Parse()

	if *userID == 0 {
		return fmt.Errorf("usage: token -user <id> [-ttl 24h]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *ttl <= 0 {
		*ttl = cfg.JWTExpirationDur
	}

	token, err := middleware.GenerateAccessToken(*userID, cfg.JWTSecret, *ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	fmt.Println(token)
	return nil
}
