package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/writeflow/internal/adminservice"
	"github.com/sushihentaime/writeflow/internal/blogservice"
	"github.com/sushihentaime/writeflow/internal/commentservice"
	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/config"
	"github.com/sushihentaime/writeflow/internal/mailservice"
	"github.com/sushihentaime/writeflow/internal/mediaservice"
	"github.com/sushihentaime/writeflow/internal/newsletterservice"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

type application struct {
	config            *config.Config
	logger            *slog.Logger
	userService       *userservice.UserService
	blogService       *blogservice.BlogService
	commentService    *commentservice.CommentService
	mediaService      *mediaservice.MediaService
	newsletterService *newsletterservice.NewsletterService
	adminService      *adminservice.AdminService
	mailService       *mailservice.MailService
	broker            *common.MessageBroker
}

func main() {
	configPath := flag.String("config", ".env", "path to the configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.MigrationsPath != "" {
		dsn := common.PostgresURI(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		m, err := common.MigrateUp(cfg.MigrationsPath, dsn)
		if err != nil {
			logger.Error("failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		m.Close()
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 25, 25, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	broker, err := common.NewMessageBroker(common.RabbitMQURI(cfg.MQHost, cfg.MQPort, cfg.MQUser, cfg.MQPassword))
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupNotificationExchange(broker)
	if err != nil {
		logger.Error("failed to setup the notification exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := mediaservice.NewObjectStore(cfg.CloudinaryURL)
	if err != nil {
		logger.Error("failed to configure media storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.CloudinaryURL == "" {
		logger.Warn("CLOUDINARY_URL is not set, media uploads are disabled")
	}

	templates, err := mailservice.NewTemplates()
	if err != nil {
		logger.Error("failed to load email templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	mailer := mailservice.NewMailer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailSender, templates)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:            cfg,
		logger:            logger,
		userService:       userservice.NewUserService(db, broker, userservice.NewTokenMaker(cfg.JWTSecret, userservice.AuthTokenTime)),
		blogService:       blogservice.NewBlogService(db, cache),
		commentService:    commentservice.NewCommentService(db),
		mediaService:      mediaservice.NewMediaService(db, store),
		newsletterService: newsletterservice.NewNewsletterService(db, broker, mailservice.NewBroadcaster(mailer, cfg.SiteURL)),
		adminService:      adminservice.NewAdminService(db, logger),
		mailService:       mailservice.NewMailService(broker, mailer, cfg.SiteURL, logger),
		broker:            broker,
	}
	defer app.mailService.Close()

	for _, start := range []func() error{app.mailService.SendOTPEmail, app.mailService.SendWelcomeEmail} {
		if err := start(); err != nil {
			logger.Error("failed to start mail consumer", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	err = app.serve(cfg.Addr())
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
