package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

var (
	MAIN_ROUTES   string
	APP_PORT      string
	NodeID        int
	JWTSecret     string
	JWTExpiration int

	// memory, database or redis
	StoreDriver string
	StorePrefix string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDebug    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminID       string
	AdminPassword string

	LogLevel  string
	LogFormat string

	DraftTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	NGAlertTo    []string

	allowedOrigins map[string]bool
)

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	MAIN_ROUTES = getEnv("MAIN_ROUTES", "/api/v1")
	APP_PORT = getEnv("APP_PORT", "9000")
	NodeID = getEnvAsInt("NODE_ID", 1)

	JWTSecret = getEnv("JWT_SECRET", "rqc_registry_key_secret")
	JWTExpiration = getEnvAsInt("JWT_EXPIRATION", 86400)

	StoreDriver = getEnv("STORE_DRIVER", "memory")
	StorePrefix = getEnv("STORE_PREFIX", "")

	DBDriver = getEnv("DB_DRIVER", "postgres")
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "5432")
	DBUser = getEnv("DB_USER", "postgres")
	DBPassword = getEnv("DB_PASSWORD", "password")
	DBName = getEnv("DB_NAME", "rqc_registry")
	DBDebug = getEnvAsBool("DB_DEBUG", false)

	RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	RedisDB = getEnvAsInt("REDIS_DB", 0)

	AdminID = getEnv("ADMIN_ID", "punit")
	AdminPassword = getEnv("ADMIN_PASSWORD", "SAG@123")

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "json")

	DraftTTL = time.Duration(getEnvAsInt("DRAFT_TTL", 1800)) * time.Second

	SMTPHost = getEnv("SMTP_HOST", "")
	SMTPPort = getEnvAsInt("SMTP_PORT", 587)
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPassword = getEnv("SMTP_PASSWORD", "")
	NGAlertTo = splitList(getEnv("NG_ALERT_TO", ""))

	loadAllowedOrigins()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadAllowedOrigins() {
	allowedOrigins = make(map[string]bool)
	origins := splitList(getEnv("ALLOWED_ORIGINS", ""))
	if len(origins) == 0 {
		allowedOrigins["http://127.0.0.1:3000"] = true
		return
	}
	for _, origin := range origins {
		allowedOrigins[origin] = true
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
