// Package dynamo implements the post store on Amazon DynamoDB.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"posts-api/internal/models"
	"posts-api/internal/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

// API is the subset of the DynamoDB client used by the repository
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// PostRepository implements the PostRepository interface for DynamoDB
type PostRepository struct {
	client API
	table  string
	logger *logrus.Logger
}

// NewPostRepository creates a DynamoDB post repository over the given table
func NewPostRepository(client API, table string, logger *logrus.Logger) *PostRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &PostRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Put writes a post unconditionally
func (r *PostRepository) Put(ctx context.Context, post *models.Post) error {
	item, err := attributevalue.MarshalMap(post)
	if err != nil {
		return repositories.NewRepositoryError("put", "post", post.ID, err)
	}

	start := time.Now()
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	r.logCall("put", post.ID, start, err)
	if err != nil {
		return translateError("put", post.ID, err)
	}
	return nil
}

// Scan reads up to limit items with a single bounded Scan call, or the whole table when
// limit <= 0. DynamoDB scans are unordered.
func (r *PostRepository) Scan(ctx context.Context, limit int) ([]*models.Post, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	}

	start := time.Now()
	var items []map[string]types.AttributeValue

	if limit > 0 {
		// ScanInput.Limit is an int32
		if limit > math.MaxInt32 {
			limit = math.MaxInt32
		}
		input.Limit = aws.Int32(int32(limit))
		out, err := r.client.Scan(ctx, input)
		r.logCall("scan", "", start, err)
		if err != nil {
			return nil, translateError("scan", "", err)
		}
		items = out.Items
	} else {
		paginator := dynamodb.NewScanPaginator(r.client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				r.logCall("scan", "", start, err)
				return nil, translateError("scan", "", err)
			}
			items = append(items, page.Items...)
		}
		r.logCall("scan", "", start, nil)
	}

	posts := []*models.Post{}
	if err := attributevalue.UnmarshalListOfMaps(items, &posts); err != nil {
		return nil, repositories.NewRepositoryError("scan", "post", "", err)
	}
	return posts, nil
}

// Get retrieves a post by ID
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, repositories.InvalidIDError("get", "post", id)
	}

	start := time.Now()
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(id),
	})
	r.logCall("get", id, start, err)
	if err != nil {
		return nil, translateError("get", id, err)
	}

	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError("post", id)
	}

	post := &models.Post{}
	if err := attributevalue.UnmarshalMap(out.Item, post); err != nil {
		return nil, repositories.NewRepositoryError("get", "post", id, err)
	}
	return post, nil
}

// Update sets the patched attributes on condition that the item exists and returns
// the item as it is after the update.
func (r *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.UpdateResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, repositories.InvalidIDError("update", "post", id)
	}
	if patch.IsEmpty() {
		return nil, repositories.ValidationError("post", id, errors.New("update has no attributes"))
	}

	var update expression.UpdateBuilder
	if patch.Title != nil {
		update = update.Set(expression.Name("title"), expression.Value(*patch.Title))
	}
	if patch.Body != nil {
		update = update.Set(expression.Name("body"), expression.Value(*patch.Body))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return nil, repositories.NewRepositoryError("update", "post", id, err)
	}

	start := time.Now()
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	r.logCall("update", id, start, err)
	if err != nil {
		return nil, translateError("update", id, err)
	}

	post := &models.Post{}
	if err := attributevalue.UnmarshalMap(out.Attributes, post); err != nil {
		return nil, repositories.NewRepositoryError("update", "post", id, err)
	}
	return &models.UpdateResult{Attributes: post}, nil
}

// Delete removes a post by ID without checking that it exists
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.InvalidIDError("delete", "post", id)
	}

	start := time.Now()
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       key(id),
	})
	r.logCall("delete", id, start, err)
	if err != nil {
		return translateError("delete", id, err)
	}
	return nil
}

// Ping describes the table and fails unless it is ACTIVE or UPDATING
func (r *PostRepository) Ping(ctx context.Context) error {
	start := time.Now()
	out, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	})
	r.logCall("ping", "", start, err)
	if err != nil {
		return translateError("ping", "", err)
	}

	var status types.TableStatus
	if out.Table != nil {
		status = out.Table.TableStatus
	}
	if status == types.TableStatusActive || status == types.TableStatusUpdating {
		return nil
	}
	return repositories.NewStoreError("ping", "post", "",
		fmt.Errorf("table %s is %q", r.table, status), http.StatusServiceUnavailable, "TableNotActive")
}

// Close is a no-op; the SDK client holds no resources that need releasing
func (r *PostRepository) Close() error {
	return nil
}

func (r *PostRepository) logCall(operation, id string, start time.Time, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"duration":  time.Since(start),
	}
	if id != "" {
		fields["id"] = id
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("DynamoDB call failed")
	} else {
		r.logger.WithFields(fields).Debug("DynamoDB call executed")
	}
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// translateError converts an SDK error into a repository error carrying the HTTP status
// and error code DynamoDB reported.
func translateError(op, id string, err error) error {
	status := 0
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status = respErr.HTTPStatusCode()
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		repoErr := repositories.ConditionFailedError(op, "post", id)
		if status != 0 {
			repoErr.StatusCode = status
		}
		if msg := condErr.ErrorMessage(); msg != "" {
			repoErr.Message = msg
		}
		return repoErr
	}

	code, message := "", ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code, message = apiErr.ErrorCode(), apiErr.ErrorMessage()
		if status == 0 && apiErr.ErrorFault() == smithy.FaultClient {
			status = http.StatusBadRequest
		}
	}

	repoErr := repositories.NewStoreError(op, "post", id, err, status, code)
	repoErr.Message = message
	return repoErr
}
