package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"givestack/internal/db"
	"givestack/internal/donations"
	"givestack/internal/mailer"
	"givestack/internal/paystack"
	"givestack/internal/ratelimiter"
	"givestack/internal/telemetry"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

// pluginName identifies this integration in transaction metadata and on the
// Paystack plugin tracker.
const pluginName = "givestack"

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

//	@title			Givestack API
//	@description	Donation checkout service bridging Give-style donations to the Paystack gateway.

//	@BasePath					/v1
//	@securityDefinitions.basic	BasicAuth

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	maxConnsStr := os.Getenv("DB_MAX_CONNS")
	maxConns, err := strconv.Atoi(maxConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}

	mode, err := paystack.ParseMode(os.Getenv("PAYSTACK_MODE"))
	if err != nil {
		log.Fatalf("Invalid PAYSTACK_MODE: %v", err)
	}

	smtpPort := 587
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if smtpPort, err = strconv.Atoi(val); err != nil {
			log.Fatalf("Invalid value for SMTP_PORT: %v", err)
		}
	}

	cfg := config{
		addr:           os.Getenv("ADDR"),
		env:            os.Getenv("ENV"),
		apiURL:         os.Getenv("EXTERNAL_URL"),
		externalURL:    os.Getenv("EXTERNAL_URL"),
		successPageURL: os.Getenv("SUCCESS_PAGE_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		paystack: paystackConfig{
			keys: paystack.Keys{
				Mode: mode,
				Test: paystack.Credentials{
					PublicKey: os.Getenv("PAYSTACK_TEST_PUBLIC_KEY"),
					SecretKey: os.Getenv("PAYSTACK_TEST_SECRET_KEY"),
				},
				Live: paystack.Credentials{
					PublicKey: os.Getenv("PAYSTACK_LIVE_PUBLIC_KEY"),
					SecretKey: os.Getenv("PAYSTACK_LIVE_SECRET_KEY"),
				},
			},
			baseURL:        os.Getenv("PAYSTACK_BASE_URL"),
			billingDetails: os.Getenv("PAYSTACK_BILLING_DETAILS") == "enabled",
		},
		mail: mailConfig{
			host:      os.Getenv("SMTP_HOST"),
			port:      smtpPort,
			username:  os.Getenv("SMTP_USERNAME"),
			password:  os.Getenv("SMTP_PASSWORD"),
			fromEmail: os.Getenv("SMTP_FROM_EMAIL"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(
		cfg.db.addr,
		cfg.db.maxConns,
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	store := donations.NewRepository(pool)

	creds := cfg.paystack.keys.Credentials()
	gateway := paystack.NewClient(creds.SecretKey, cfg.paystack.baseURL)
	tracker := telemetry.NewTracker(pluginName, creds.PublicKey)

	// Receipt mail is optional: without SMTP config the flow simply skips it.
	var receipts donations.ReceiptSender
	if cfg.mail.host != "" {
		sender, err := mailer.NewSMTPSender(cfg.mail.host, cfg.mail.port, cfg.mail.username, cfg.mail.password, cfg.mail.fromEmail)
		if err != nil {
			logger.Fatal(err)
		}
		receipts = receiptMailer{client: sender}
	}

	service := donations.NewService(store, gateway, tracker, receipts, logger, donations.Config{
		PublicKey:       creds.PublicKey,
		CallbackBaseURL: cfg.externalURL + "/v1/paystack/callback",
		SuccessPageURL:  cfg.successPageURL,
		PluginName:      pluginName,
	})

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		store:       store,
		donations:   service,
		logger:      logger,
		rateLimiter: rateLimiter,
	}

	// Metrics collected at /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		return pool.Stat()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
