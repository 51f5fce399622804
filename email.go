package main

import (
	"log"
	"os"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
	"github.com/haritfarms/storefront-backend/internal/pkg/logger"
)

// SMTP smoke test. Run with `go run email.go [recipient]`; defaults to the
// configured support address.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	to := cfg.Email.SupportEmail
	if len(os.Args) > 1 {
		to = os.Args[1]
	}

	emailService := email.NewService(cfg, logger.New(cfg))
	if err := emailService.SendTest(to); err != nil {
		log.Fatal("SMTP test failed:", err)
	}

	log.Println("SMTP test email sent to", to)
}
