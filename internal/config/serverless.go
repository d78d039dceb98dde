package config

import (
	"os"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// GetServerlessConfig returns the serverless configuration read from the Lambda runtime environment
func GetServerlessConfig() *ServerlessConfig {
	return &ServerlessConfig{
		IsLambda:     isRunningInLambda(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return isRunningInLambda()
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless fills in deployment-dependent defaults. Inside Lambda the store
// defaults to DynamoDB and logs are always JSON; elsewhere the store defaults to SQLite, or
// PostgreSQL when the connection string is a postgres URL.
func AdaptConfigForServerless(config *Config) *Config {
	serverless := GetServerlessConfig()

	if config.Store.Type == "" {
		switch {
		case serverless.IsLambda:
			config.Store.Type = StoreDynamoDB
		case config.Database.IsPostgresDSN():
			config.Store.Type = StorePostgres
		default:
			config.Store.Type = StoreSQLite
		}
	}

	if !serverless.IsLambda {
		return config
	}

	// CloudWatch expects one JSON object per line
	config.Log.Format = "json"

	if serverless.Region != "" {
		config.Dynamo.Region = serverless.Region
	}

	if config.Environment == "development" {
		config.Environment = serverless.Stage
	}

	return config
}

// GetOptimizedConfig returns validated configuration adapted to the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	config = AdaptConfigForServerless(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
