package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Auth modes understood by the actor resolution middleware.
const (
	AuthModeJWT    = "jwt"
	AuthModeStatic = "static"
)

// Config holds application configuration
type Config struct {
	// App
	Env     string
	AppName string
	Port    string
	Debug   bool

	// Database
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Actor resolution
	AuthMode      string
	StaticActorID uint

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration
}

// Load loads configuration from the environment, after merging an optional
// .env file into it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Env:     v.GetString("ENV"),
		AppName: v.GetString("APP_NAME"),
		Port:    v.GetString("PORT"),
		Debug:   v.GetBool("DEBUG"),

		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),

		AuthMode:      v.GetString("AUTH_MODE"),
		StaticActorID: v.GetUint("STATIC_ACTOR_ID"),

		JWTSecret: v.GetString("JWT_SECRET"),
	}

	expStr := v.GetString("JWT_EXPIRES_IN")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("APP_NAME", "Cash Mesh API")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "cashmesh")
	v.SetDefault("DB_PASSWORD", "cashmesh")
	v.SetDefault("DB_NAME", "cashmesh")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("AUTH_MODE", AuthModeJWT)
	v.SetDefault("STATIC_ACTOR_ID", 0)

	v.SetDefault("JWT_SECRET", "fallback-secret-key-for-dev-only")
	v.SetDefault("JWT_EXPIRES_IN", "24h")
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use postgres, mysql, or sqlite)", c.DBDriver)
	}

	switch c.AuthMode {
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET must be set when AUTH_MODE=%s", AuthModeJWT)
		}
	case AuthModeStatic:
		if c.StaticActorID == 0 {
			return fmt.Errorf("STATIC_ACTOR_ID must be a positive user id when AUTH_MODE=%s", AuthModeStatic)
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q (use jwt or static)", c.AuthMode)
	}
	return nil
}
