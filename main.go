package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/khanghh/kontest/internal/common"
	"github.com/khanghh/kontest/internal/config"
	"github.com/khanghh/kontest/internal/geoip"
	"github.com/khanghh/kontest/internal/handlers/api"
	"github.com/khanghh/kontest/internal/loginlog"
	"github.com/khanghh/kontest/internal/mail"
	"github.com/khanghh/kontest/internal/middlewares"
	"github.com/khanghh/kontest/internal/middlewares/captcha"
	"github.com/khanghh/kontest/internal/middlewares/csrf"
	"github.com/khanghh/kontest/internal/middlewares/sessions"
	"github.com/khanghh/kontest/internal/render"
	"github.com/khanghh/kontest/internal/store"
	"github.com/khanghh/kontest/internal/users"
	"github.com/khanghh/kontest/model"
	"github.com/khanghh/kontest/params"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
	adminEmailFlag = &cli.StringFlag{
		Name:     "email",
		Usage:    "Administrator email",
		Required: true,
	}
	adminNameFlag = &cli.StringFlag{
		Name:     "name",
		Usage:    "Administrator display name",
		Required: true,
	}
	adminPasswordFlag = &cli.StringFlag{
		Name:     "password",
		Usage:    "Administrator password",
		Required: true,
		EnvVars:  []string{"ADMIN_PASSWORD"},
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "kontest - contest participant management portal"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name:  "version",
			Usage: "Print version information",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
		{
			Name:   "create-admin",
			Usage:  "Create an administrator account",
			Flags:  []cli.Flag{adminEmailFlag, adminNameFlag, adminPasswordFlag},
			Action: createAdmin,
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Failed to get database handle", "error", err)
		os.Exit(1)
	}
	if dbConfig.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}
	if dbConfig.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}
	if dbConfig.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(dbConfig.ConnMaxIdleTime) * time.Second)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
	}

	if len(dbConfig.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(dbConfig.Replicas))
		for _, dsn := range dbConfig.Replicas {
			replicas = append(replicas, mysql.Open(dsn))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})
		if dbConfig.MaxIdleConns > 0 {
			resolver.SetMaxIdleConns(dbConfig.MaxIdleConns)
		}
		if dbConfig.MaxOpenConns > 0 {
			resolver.SetMaxOpenConns(dbConfig.MaxOpenConns)
		}
		if err := db.Use(resolver); err != nil {
			slog.Error("Failed to register read replicas", "error", err)
			os.Exit(1)
		}
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}
	return db
}

func mustInitMailSender(mailCfg config.MailConfig) mail.MailSender {
	switch mailCfg.Backend {
	case "":
		slog.Info("No mail backend configured, welcome mails are disabled")
		return mail.NewNullMailSender()
	case "smtp":
		smtpCfg := mailCfg.SMTP
		sender, err := mail.NewSMTPMailSender(mail.SMTPConfig{
			Host:     smtpCfg.Host,
			Port:     smtpCfg.Port,
			Username: smtpCfg.Username,
			Password: smtpCfg.Password,
			TLS:      smtpCfg.TLS,
			CertFile: smtpCfg.CertFile,
			KeyFile:  smtpCfg.KeyFile,
			CAFile:   smtpCfg.CAFile,
		}, mailCfg.From)
		if err != nil {
			slog.Error("Failed to initialize SMTP mail sender", "error", err)
			os.Exit(1)
		}
		return sender
	}
	slog.Error("Unsupported mail sender backend", "backend", mailCfg.Backend)
	os.Exit(1)
	return nil
}

func mustInitCaptchaVerifier(captchaCfg config.CaptchaConfig) captcha.CaptchaVerifier {
	if captchaCfg.Provider == "turnstile" {
		return captcha.NewTurnstileVerifier(captchaCfg.Turnstile.SecretKey)
	}
	return captcha.NewNullVerifier()
}

func mustInitGeoResolver(geoCfg config.GeoIPConfig) geoip.Resolver {
	switch geoCfg.Provider {
	case "maxmind":
		resolver, err := geoip.NewMaxMindResolver(geoCfg.DatabasePath)
		if err != nil {
			slog.Error("Failed to open GeoIP database", "path", geoCfg.DatabasePath, "error", err)
			os.Exit(1)
		}
		return resolver
	case "ipapi":
		return geoip.NewIPAPIResolver(geoCfg.BaseURL,
			geoip.WithTimeout(geoCfg.Timeout),
			geoip.WithRateLimit(geoCfg.RateLimit, geoCfg.Burst),
		)
	}
	slog.Error("Unsupported geoip provider", "provider", geoCfg.Provider)
	os.Exit(1)
	return nil
}

// storageBackends holds the shared key-value storage in the two shapes the
// app needs: fiber.Storage for the limiter and store.Storage for sessions.
type storageBackends struct {
	fiberStorage fiber.Storage
	cacheStorage store.Storage
	healthChecks map[string]common.HealthCheck
}

func mustInitStorage(redisCfg config.RedisConfig) storageBackends {
	if redisCfg.URL == "" {
		slog.Warn("No redis url configured, using in-memory storage")
		mem := memory.New()
		return storageBackends{
			fiberStorage: mem,
			cacheStorage: store.NewMemoryStorage(mem),
			healthChecks: map[string]common.HealthCheck{},
		}
	}
	redisStorage := redis.New(redis.Config{
		URL:           redisCfg.URL,
		PoolSize:      redisCfg.PoolSize,
		IsClusterMode: redisCfg.ClusterMode,
	})
	return storageBackends{
		fiberStorage: redisStorage,
		cacheStorage: store.NewRedisStorage(redisStorage.Conn()),
		healthChecks: map[string]common.HealthCheck{
			"redis": common.RedisCheck(redisStorage.Conn()),
		},
	}
}

func createAdmin(ctx *cli.Context) error {
	config, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		return err
	}
	mustInitLogger(config.Debug || ctx.IsSet(debugFlag.Name))

	db := mustInitDatabase(config.MySQL)
	userService := users.NewUserService(users.NewUserRepository(db))
	user, err := userService.CreateAdmin(ctx.Context, users.CreateAdminOptions{
		Email:    ctx.String(adminEmailFlag.Name),
		Name:     ctx.String(adminNameFlag.Name),
		Password: ctx.String(adminPasswordFlag.Name),
	})
	if err != nil {
		return err
	}
	slog.Info("Administrator created", "id", user.ID, "email", user.Email)
	return nil
}

func run(ctx *cli.Context) error {
	config, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(config.Debug || ctx.IsSet(debugFlag.Name))

	renderer, err := render.New(map[string]interface{}{
		"siteName": config.SiteName,
		"baseURL":  config.BaseURL,
	}, config.TemplateDir)
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		return err
	}

	db := mustInitDatabase(config.MySQL)
	storage := mustInitStorage(config.Redis)
	mailSender := mustInitMailSender(config.Mail)
	captchaVerifier := mustInitCaptchaVerifier(config.Captcha)
	geoResolver := mustInitGeoResolver(config.GeoIP)
	if closer, ok := geoResolver.(io.Closer); ok {
		defer closer.Close()
	}

	// repositories
	var (
		userRepo     = users.NewUserRepository(db)
		loginLogRepo = loginlog.NewLoginLogRepository(db)
	)

	// services
	var (
		userService    = users.NewUserService(userRepo)
		geoService     = geoip.NewService(geoResolver)
		logPipeline    = loginlog.NewPipeline(loginLogRepo, geoService)
		loginRecorder  = loginlog.NewRecorder(loginLogRepo)
		welcomeMailer  = mail.NewWelcomeMailer(mailSender, renderer, config.SiteName)
		sessionManager = sessions.NewManager(sessions.Config{
			Storage:        storage.cacheStorage,
			MasterKey:      config.MasterKey,
			SessionMaxAge:  config.Session.SessionMaxAge,
			CookieSecure:   config.Session.CookieSecure,
			CookieHttpOnly: config.Session.CookieHttpOnly,
			CookieName:     config.Session.CookieName,
		})
	)

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(config.AllowOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + params.CSRFHeader,
		AllowCredentials: len(config.AllowOrigins) > 0 && config.AllowOrigins[0] != "*",
	}))

	api.SetupRoutes(router, api.RouteConfig{
		Sessions: sessionManager.Handler(),
		CSRF:     csrf.New(csrf.Config{ExcludePaths: []string{"/api/auth/login"}}),
		LoginLimiter: middlewares.RateLimit(middlewares.RateLimitConfig{
			Storage: storage.fiberStorage,
			Max:     config.LoginRateLimit.Max,
			Window:  config.LoginRateLimit.Window,
			HashKey: config.MasterKey,
		}),
		Auth:    api.NewAuthHandler(userService, loginRecorder, sessionManager, captchaVerifier),
		Users:   api.NewUserHandler(userService, welcomeMailer),
		Profile: api.NewProfileHandler(userService),
		Logs:    api.NewLogHandler(logPipeline),
	})

	checks := storage.healthChecks
	checks["mysql"] = common.MySQLCheck(db)
	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, params.HealthCheckServerAddr, checks)
	defer func() {
		term()
		<-done
	}()
	return router.Listen(config.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
