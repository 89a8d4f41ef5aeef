package main

import (
	"log"

	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/controllers"
	"github.com/rk-consultants/rk-server/payments"
	"github.com/rk-consultants/rk-server/routes"
	"github.com/rk-consultants/rk-server/utils"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir, !cfg.IsProduction()); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Failed to initialize database: %v", err)
		log.Fatal("Failed to initialize database:", err)
	}

	paymentService, err := payments.NewService(
		payments.NewGormStore(config.DB),
		payments.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		cfg.RazorpayKeySecret,
	)
	if err != nil {
		utils.LogError("Failed to initialize payments: %v", err)
		log.Fatal("Failed to initialize payments:", err)
	}

	controllers.Configure(controllers.Options{
		JWTSecret:        cfg.JWTSecret,
		Payments:         paymentService,
		RazorpayKeyID:    cfg.RazorpayKeyID,
		ContactMailer:    contactMailer(cfg),
		Mailer:           transactionalMailer(cfg),
		AdminNotifyEmail: cfg.AdminNotifyEmail,
	})

	// Set up router
	router, err := routes.SetupRouter(routes.Options{
		JWTSecret:      cfg.JWTSecret,
		SessionSecret:  cfg.SessionSecret,
		SecureCookies:  cfg.IsProduction(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	if err != nil {
		utils.LogError("Failed to set up router: %v", err)
		log.Fatal("Failed to set up router:", err)
	}

	utils.LogInfo("Server starting on port %s (%s)", cfg.Port, cfg.Env)
	// Start server
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}

// contactMailer sends contact-form confirmations over SMTP when configured
func contactMailer(cfg *config.Config) utils.Mailer {
	if cfg.SMTPHost == "" {
		utils.LogInfo("SMTP_HOST not set, contact confirmations are disabled")
		return utils.DisabledMailer{}
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &utils.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     from,
		FromName: utils.AppName,
	}
}

// transactionalMailer backs /api/mail/send with SendGrid when configured
func transactionalMailer(cfg *config.Config) utils.Mailer {
	if cfg.SendGridAPIKey == "" {
		utils.LogInfo("SENDGRID_API_KEY not set, /api/mail/send is disabled")
		return utils.DisabledMailer{}
	}
	return &utils.SendGridMailer{
		APIKey:   cfg.SendGridAPIKey,
		From:     cfg.MailFrom,
		FromName: utils.AppName,
	}
}
