package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store types accepted by STORE_TYPE
const (
	StoreDynamoDB = "dynamodb"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Store       StoreConfig
	Dynamo      DynamoConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	Log         LogConfig
	Server      ServerConfig
	Posts       PostsConfig
}

// StoreConfig selects the post store backend
type StoreConfig struct {
	Type  string // dynamodb, sqlite, postgres, mongo or memory
	Table string
}

// DynamoConfig holds DynamoDB client configuration
type DynamoConfig struct {
	Region   string
	Endpoint string // DynamoDB Local or LocalStack
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// ServerConfig holds settings used only by the local HTTP server
type ServerConfig struct {
	AllowedOrigins  []string
	RateLimit       float64 // requests per second per client
	RateBurst       int
	ShutdownTimeout time.Duration
}

// PostsConfig holds post handler settings
type PostsConfig struct {
	DefaultUserID int
	Function      string // pins the Lambda binary to one operation
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("POSTS_TABLE", "posts")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("DB_CONNECTION_STRING", DefaultDatabasePath)
	v.SetDefault("DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("MONGODB_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGODB_DATABASE", "posts")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("POSTS_DEFAULT_USER_ID", 1)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Store: StoreConfig{
			Type:  strings.ToLower(v.GetString("STORE_TYPE")),
			Table: v.GetString("POSTS_TABLE"),
		},
		Dynamo: DynamoConfig{
			Region:   v.GetString("AWS_REGION"),
			Endpoint: v.GetString("DYNAMODB_ENDPOINT"),
		},
		Database: DatabaseConfig{
			ConnectionString: v.GetString("DB_CONNECTION_STRING"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:  v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Server: ServerConfig{
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimit:       v.GetFloat64("RATE_LIMIT_RPS"),
			RateBurst:       v.GetInt("RATE_LIMIT_BURST"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Posts: PostsConfig{
			DefaultUserID: v.GetInt("POSTS_DEFAULT_USER_ID"),
			Function:      v.GetString("POSTS_FUNCTION"),
		},
	}

	return config, nil
}

// Validate checks the settings every entry point depends on
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreDynamoDB, StoreSQLite, StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unsupported store type %q", c.Store.Type)
	}

	if strings.TrimSpace(c.Store.Table) == "" {
		return fmt.Errorf("posts table name cannot be empty")
	}

	if c.Posts.DefaultUserID <= 0 {
		return fmt.Errorf("default user id must be positive, got %d", c.Posts.DefaultUserID)
	}

	switch c.Store.Type {
	case StoreDynamoDB:
		if c.Dynamo.Region == "" {
			return fmt.Errorf("AWS region is required for the dynamodb store")
		}
	case StoreSQLite, StorePostgres:
		return c.Database.Validate()
	case StoreMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("mongo URI and database are required for the mongo store")
		}
	}

	return nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
