// Package mongo implements the post store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"posts-api/internal/models"
	"posts-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const disconnectTimeout = 10 * time.Second

// PostRepository implements the PostRepository interface for MongoDB
type PostRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *logrus.Logger
}

// Connect opens a client for uri and pings the primary
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, repositories.ConnectionError(err)
	}
	return client, nil
}

// NewPostRepository creates a MongoDB post repository over database.collection
func NewPostRepository(client *mongo.Client, database, collection string, logger *logrus.Logger) *PostRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &PostRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger,
	}
}

// EnsureIndexes creates the createdAt index used by Scan
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("ensure posts indexes: %w", err)
	}
	return nil
}

// Put inserts or replaces a post
func (r *PostRepository) Put(ctx context.Context, post *models.Post) error {
	if strings.TrimSpace(post.ID) == "" {
		return repositories.InvalidIDError("put", "post", post.ID)
	}

	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post, options.Replace().SetUpsert(true))
	r.logCall("put", start, err)
	if err != nil {
		return translateError("put", post.ID, err)
	}
	return nil
}

// Scan retrieves up to limit posts, newest first
func (r *PostRepository) Scan(ctx context.Context, limit int) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logCall("scan", start, err)
		return nil, translateError("scan", "", err)
	}

	posts := []*models.Post{}
	err = cursor.All(ctx, &posts)
	r.logCall("scan", start, err)
	if err != nil {
		return nil, translateError("scan", "", err)
	}
	return posts, nil
}

// Get retrieves a post by ID
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, repositories.InvalidIDError("get", "post", id)
	}

	start := time.Now()
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.logCall("get", start, nil)
		return nil, repositories.NotFoundError("post", id)
	}
	r.logCall("get", start, err)
	if err != nil {
		return nil, translateError("get", id, err)
	}
	return &post, nil
}

// Update sets the patched fields on an existing post. The filter on _id with upsert
// disabled makes a missing post a condition failure.
func (r *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.UpdateResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, repositories.InvalidIDError("update", "post", id)
	}
	if patch.IsEmpty() {
		return nil, repositories.ValidationError("post", id, errors.New("update has no attributes"))
	}

	set := bson.M{}
	for name, value := range patch.Fields() {
		set[name] = value
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(false)

	start := time.Now()
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.logCall("update", start, nil)
		return nil, repositories.ConditionFailedError("update", "post", id)
	}
	r.logCall("update", start, err)
	if err != nil {
		return nil, translateError("update", id, err)
	}
	return &models.UpdateResult{Attributes: &post}, nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.InvalidIDError("delete", "post", id)
	}

	start := time.Now()
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	r.logCall("delete", start, err)
	if err != nil {
		return translateError("delete", id, err)
	}
	return nil
}

// Ping checks that the primary is reachable
func (r *PostRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.client.Ping(ctx, readpref.Primary())
	r.logCall("ping", start, err)
	if err != nil {
		return repositories.NewStoreError("ping", "post", "", err, http.StatusServiceUnavailable, "")
	}
	return nil
}

// Close disconnects the client
func (r *PostRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *PostRepository) logCall(operation string, start time.Time, err error) {
	fields := logrus.Fields{
		"operation":  operation,
		"collection": r.collection.Name(),
		"duration":   time.Since(start),
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

func translateError(op, id string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return repositories.NewStoreError(op, "post", id, err, http.StatusBadRequest, "DuplicateKey")
	case mongo.IsTimeout(err):
		return repositories.NewStoreError(op, "post", id, err, http.StatusGatewayTimeout, "Timeout")
	case mongo.IsNetworkError(err):
		return repositories.NewStoreError(op, "post", id, err, http.StatusServiceUnavailable, "NetworkError")
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return repositories.NewStoreError(op, "post", id, err, http.StatusInternalServerError, cmdErr.Name)
	}

	return repositories.NewRepositoryError(op, "post", id, err)
}
