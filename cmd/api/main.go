package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/geo"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/lifecycle"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/media"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/ratelimiter"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/session"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/upstream"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 20
	defaultEnabled := true

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			log.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			log.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            time.Minute,
		Enabled:              enabled,
	}
}

// NewLogger creates a zap logger with colored console output.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	cfg := config{
		addr:        getenv("ADDR", ":8080"),
		env:         getenv("ENV", "development"),
		frontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),
		upstreamURL: os.Getenv("BOOKING_SERVICE_URL"),
		geocoderURL: getenv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		redisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		media: mediaConfig{
			folder:      getenv("MEDIA_FOLDER", "mehndi"),
			imagePreset: os.Getenv("MEDIA_IMAGE_PRESET"),
			videoPreset: os.Getenv("MEDIA_VIDEO_PRESET"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	logger, err := NewLogger()
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	if cfg.upstreamURL == "" {
		logger.Fatal("BOOKING_SERVICE_URL is required")
	}

	// Wizard draft sessions
	rdb := redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
	defer rdb.Close()
	sessions := session.NewStore(rdb)
	logger.Info("redis session store configured")

	// Media store
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		logger.Fatal(err)
	}
	uploader := media.NewCloudinaryUploader(cld, cfg.media.folder, cfg.media.imagePreset, cfg.media.videoPreset)
	coordinator := media.NewCoordinator(uploader)

	// Booking persistence service
	bookingSvc := upstream.NewClient(cfg.upstreamURL)

	controller := lifecycle.NewController(
		bookingSvc,
		lifecycle.NewSynchronizer(bookingSvc),
		coordinator,
		logger,
	)

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		sessions:    sessions,
		controller:  controller,
		coordinator: coordinator,
		geocoder:    geo.NewClient(cfg.geocoderURL),
		rateLimiter: rateLimiter,
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
