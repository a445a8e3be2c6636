package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/publication-admin/internal/domain"
)

const ttlAttribute = fieldExpiresAt

// itemRetention is how long an item outlives its code before DynamoDB TTL
// reaps it. Expiry itself is decided from created_at, not from TTL.
const itemRetention = time.Hour

// itemAPI is the part of the DynamoDB API the code store uses.
type itemAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type emailCodeItem struct {
	domain.EmailCode
	ExpiresAt int64 `dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// EmailCodeRepo stores one item per normalized email.
// PK: email
type EmailCodeRepo struct {
	client    itemAPI
	tableName string
}

func NewEmailCodeRepo(client itemAPI, tableName string) *EmailCodeRepo {
	return &EmailCodeRepo{client: client, tableName: tableName}
}

func (r *EmailCodeRepo) Get(ctx context.Context, email string) (*domain.EmailCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo get email code: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("email code: %w", domain.ErrNotFound)
	}
	var item emailCodeItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal email code: %w", err)
	}
	return &item.EmailCode, nil
}

// Replace overwrites any previous code for the email in a single PutItem.
func (r *EmailCodeRepo) Replace(ctx context.Context, c *domain.EmailCode) error {
	item, err := attributevalue.MarshalMap(emailCodeItem{
		EmailCode: *c,
		ExpiresAt: c.CreatedAt.Add(domain.EmailCodeTTL + itemRetention).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal email code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamo put email code: %w", err)
	}
	return nil
}

func (r *EmailCodeRepo) UpdateAttempts(ctx context.Context, email string, attempts int) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldAttempts: attempts})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(" + fieldEmail + ")"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("email code: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("dynamo update email code: %w", err)
	}
	return nil
}

func (r *EmailCodeRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEmail, email),
	})
	if err != nil {
		return fmt.Errorf("dynamo delete email code: %w", err)
	}
	return nil
}
