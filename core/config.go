package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address                   string
		DebugAddress              string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
		PasswordResetTimeoutDelta time.Duration
	}

	StorageConfig struct {
		Driver        string // memory | redis | sqlite | postgres
		Namespace     string
		QuotaBytes    int64 // memory and sql drivers; 0 disables the quota
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		DSN           string // sqlite file path or postgres URL
	}

	AdminConfig struct {
		ID       string
		Name     string
		Password string
	}

	Config struct {
		Env              string
		Debug            bool
		TestMode         bool
		AppName          string
		Build            string
		SecretKey        string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string
		InsightApiKey    string
		Server           ServerConfig
		Storage          StorageConfig
		Admin            AdminConfig
	}
)

// InsightsEnabled reports whether the insight collaborator credential is configured.
func (c *Config) InsightsEnabled() bool {
	return c.InsightApiKey != ""
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Feedesk")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "k2v8-qpa)lmx$+31=fe&iozb4(t!w)#*d9(#hr^$cybn7qfx")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("defaultFromName", "Feedesk")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("insightApiKey", "")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("debugAddress", ":4000")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("shutdownTimeout", 5*time.Second)
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	conf.SetDefault("storageDriver", "memory")
	conf.SetDefault("storageNamespace", "feedesk_v1")
	conf.SetDefault("storageQuotaBytes", int64(5*1024*1024)) // same order as a browser origin quota
	conf.SetDefault("redisAddr", "localhost:6379")
	conf.SetDefault("redisPassword", "")
	conf.SetDefault("redisDB", 0)
	conf.SetDefault("storageDSN", "feedesk.db")
	conf.SetDefault("adminID", "ADMIN001")
	conf.SetDefault("adminName", "Administrator")
	conf.SetDefault("adminPassword", "Admin@2024!")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:       env,
		Debug:     conf.GetBool("debug"),
		TestMode:  conf.GetBool("testMode"),
		AppName:   conf.GetString("appName"),
		Build:     conf.GetString("build"),
		SecretKey: conf.GetString("secretKey"),
		DefaultFromEmail: mail.Address{
			Name:    conf.GetString("defaultFromName"),
			Address: conf.GetString("defaultFromEmail"),
		},
		SendgridApiKey: conf.GetString("sendgridApiKey"),
		RollbarToken:   conf.GetString("rollbarToken"),
		InsightApiKey:  conf.GetString("insightApiKey"),
		Server: ServerConfig{
			Address:                   conf.GetString("serverAddress"),
			DebugAddress:              conf.GetString("debugAddress"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
			ShutdownTimeout:           conf.GetDuration("shutdownTimeout"),
			PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(conf.GetString("storageDriver")),
			Namespace:     conf.GetString("storageNamespace"),
			QuotaBytes:    conf.GetInt64("storageQuotaBytes"),
			RedisAddr:     conf.GetString("redisAddr"),
			RedisPassword: conf.GetString("redisPassword"),
			RedisDB:       conf.GetInt("redisDB"),
			DSN:           conf.GetString("storageDSN"),
		},
		Admin: AdminConfig{
			ID:       conf.GetString("adminID"),
			Name:     conf.GetString("adminName"),
			Password: conf.GetString("adminPassword"),
		},
	}
}
