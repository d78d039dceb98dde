package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"posts-api/internal/config"
	"posts-api/pkg/server"
)

func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// The store client is built once per cold start and reused across invocations
	container, err := server.NewContainer(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	container.Logger.WithFields(logrus.Fields{
		"lambda":   config.GetServerlessConfig().FunctionName,
		"store":    cfg.Store.Type,
		"table":    cfg.Store.Table,
		"function": cfg.Posts.Function,
	}).Info("Posts function ready")

	awslambda.Start(container.APIGatewayHandler())
}
