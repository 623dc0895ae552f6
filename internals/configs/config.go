package configs

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// AppConfig dibangun sekali di main lalu diteruskan ke semua komponen.
type AppConfig struct {
	Port        string
	AppURL      string
	JWTSecret   string
	JWTTTL      time.Duration
	Location    *time.Location
	UploadsDir  string
	CORSOrigins string

	Storage  StorageConfig
	SMTP     SMTPConfig
	Midtrans MidtransConfig
	Outbox   OutboxConfig
	Reaper   ReaperConfig
}

type StorageConfig struct {
	Driver string // local | oss | s3

	OSSEndpoint  string
	OSSAccessKey string
	OSSSecretKey string
	OSSBucket    string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled false → notifikasi hanya di-log.
func (s SMTPConfig) Enabled() bool { return s.Host != "" && s.From != "" }

type MidtransConfig struct {
	ServerKey  string
	Production bool
}

type OutboxConfig struct {
	Schedule    string
	Workers     int
	BatchSize   int
	MaxAttempts int
}

type ReaperConfig struct {
	Schedule      string
	RetentionDays int
	DryRun        bool
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("no .env file found, using system environment")
		} else {
			log.Info().Msg(".env file loaded")
		}
	} else {
		log.Info().Msg("running on Railway, using system environment")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	switch strings.ToLower(GetEnv(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Load membaca seluruh konfigurasi aplikasi dari ENV.
func Load() AppConfig {
	loc, err := time.LoadLocation(GetEnv("APP_TIMEZONE", "Africa/Libreville"))
	if err != nil {
		log.Warn().Err(err).Msg("invalid APP_TIMEZONE, falling back to UTC")
		loc = time.UTC
	}

	cfg := AppConfig{
		Port:        GetEnv("PORT", "3000"),
		AppURL:      GetEnv("APP_URL", "http://localhost:5173"),
		JWTSecret:   GetEnv("JWT_SECRET"),
		JWTTTL:      GetEnvDuration("JWT_TTL", 12*time.Hour),
		Location:    loc,
		UploadsDir:  GetEnv("UPLOADS_DIR", "uploads"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		Storage: StorageConfig{
			Driver:       strings.ToLower(GetEnv("STORAGE_DRIVER", "local")),
			OSSEndpoint:  GetEnv("ALI_OSS_ENDPOINT"),
			OSSAccessKey: GetEnv("ALI_OSS_ACCESS_KEY"),
			OSSSecretKey: GetEnv("ALI_OSS_SECRET_KEY"),
			OSSBucket:    GetEnv("ALI_OSS_BUCKET"),
			S3Endpoint:   GetEnv("S3_ENDPOINT"),
			S3Region:     GetEnv("S3_REGION", "us-east-1"),
			S3AccessKey:  GetEnv("S3_ACCESS_KEY"),
			S3SecretKey:  GetEnv("S3_SECRET_KEY"),
			S3Bucket:     GetEnv("S3_BUCKET"),
			S3UseSSL:     GetEnvBool("S3_USE_SSL", true),
		},
		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST"),
			Port:     GetEnvInt("SMTP_PORT", 587),
			Username: GetEnv("SMTP_USERNAME"),
			Password: GetEnv("SMTP_PASSWORD"),
			From:     GetEnv("SMTP_FROM"),
		},
		Midtrans: MidtransConfig{
			ServerKey:  GetEnv("MIDTRANS_SERVER_KEY"),
			Production: GetEnvBool("MIDTRANS_USE_PROD", false),
		},
		Outbox: OutboxConfig{
			Schedule:    GetEnv("OUTBOX_SCHEDULE", "@every 30s"),
			Workers:     GetEnvInt("OUTBOX_WORKERS", 4),
			BatchSize:   GetEnvInt("OUTBOX_BATCH_SIZE", 50),
			MaxAttempts: GetEnvInt("OUTBOX_MAX_ATTEMPTS", 5),
		},
		Reaper: ReaperConfig{
			Schedule:      GetEnv("CRON_SCHEDULE", "15 2 * * *"),
			RetentionDays: GetEnvInt("RETENTION_DAYS", 30),
			DryRun:        GetEnvBool("DRY_RUN", false),
		},
	}

	if cfg.JWTSecret == "" {
		log.Error().Msg("JWT_SECRET is not set")
	}
	if !cfg.SMTP.Enabled() {
		log.Warn().Msg("SMTP not configured, emails will only be logged")
	}
	return cfg
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	n := *l
	n.LogLevel = level
	return &n
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Info().Msgf(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Warn().Msgf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Error().Msgf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && !isRecordNotFound(err):
		log.Error().Err(err).Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Warn().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg("[SLOW SQL] " + sql)
	case l.LogLevel >= gormLogger.Info:
		log.Debug().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
