package database

import (
	"context"
	"fmt"

	"posts-api/internal/config"
	"posts-api/internal/repositories"
	"posts-api/internal/repositories/dynamo"
	"posts-api/internal/repositories/memory"
	"posts-api/internal/repositories/mongo"
	"posts-api/internal/repositories/postgres"
	"posts-api/internal/repositories/sqlite"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

// NewPostRepository opens the store selected by cfg.Store.Type. The caller owns the
// returned repository and must Close it.
func NewPostRepository(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repositories.PostRepository, error) {
	if logger == nil {
		logger = logrus.New()
	}

	logger.WithFields(logrus.Fields{
		"store": cfg.Store.Type,
		"table": cfg.Store.Table,
	}).Info("Opening post store")

	switch cfg.Store.Type {
	case config.StoreDynamoDB:
		client, err := NewDynamoClient(ctx, cfg.Dynamo)
		if err != nil {
			return nil, err
		}
		return dynamo.NewPostRepository(client, cfg.Store.Table, logger), nil

	case config.StoreSQLite:
		return newSQLiteRepository(ctx, cfg, logger)

	case config.StorePostgres:
		return newPostgresRepository(ctx, cfg, logger)

	case config.StoreMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		repo := mongo.NewPostRepository(client, cfg.Mongo.Database, cfg.Store.Table, logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil

	case config.StoreMemory:
		return memory.NewPostRepository(), nil

	default:
		return nil, fmt.Errorf("%w: store type %q", repositories.ErrUnsupported, cfg.Store.Type)
	}
}

// NewDynamoClient builds a DynamoDB client from the default AWS credential chain.
// A non-empty endpoint points the client at DynamoDB Local or LocalStack.
func NewDynamoClient(ctx context.Context, cfg config.DynamoConfig) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func newSQLiteRepository(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repositories.PostRepository, error) {
	if cfg.Store.Table != SQLiteTable {
		return nil, fmt.Errorf("sqlite store uses the migrated table %q, got POSTS_TABLE=%q", SQLiteTable, cfg.Store.Table)
	}

	cm := NewConnectionManager(&cfg.Database, logger)
	if err := cm.Connect(ctx); err != nil {
		return nil, err
	}

	repo, err := sqlite.NewPostRepository(cm.GetDB(), SQLiteTable, logger)
	if err != nil {
		cm.Close()
		return nil, err
	}
	return repo, nil
}

func newPostgresRepository(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repositories.PostRepository, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database.ConnectionString, int32(cfg.Database.MaxOpenConns))
	if err != nil {
		return nil, err
	}

	repo, err := postgres.NewPostRepository(pool, cfg.Store.Table, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, err
		}
	}
	return repo, nil
}
