package dynamo

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/publication-admin/internal/config"
	"github.com/publication-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockDynamo struct{ mock.Mock }

func (m *mockDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DeleteItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}

func (m *mockDynamo) UpdateTimeToLive(ctx context.Context, in *dynamodb.UpdateTimeToLiveInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateTimeToLiveOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateTimeToLiveOutput)
	return out, args.Error(1)
}

// --- tests ---

func TestEmailCodeRepo_ReplaceThenGet(t *testing.T) {
	m := &mockDynamo{}
	repo := NewEmailCodeRepo(m, "email_codes")
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	code := &domain.EmailCode{Email: "a@example.com", Code: "123456", Attempts: 3, CreatedAt: created}

	var stored map[string]types.AttributeValue
	m.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return *in.TableName == "email_codes"
	})).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*dynamodb.PutItemInput).Item
	}).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, repo.Replace(context.Background(), code))
	require.NotNil(t, stored)

	ttl, ok := stored["expires_at"].(*types.AttributeValueMemberN)
	require.True(t, ok, "expires_at must be a number attribute for TTL")
	assert.Equal(t, strconv.FormatInt(created.Add(domain.EmailCodeTTL+itemRetention).Unix(), 10), ttl.Value)

	m.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: stored}, nil)

	got, err := repo.Get(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, code.Email, got.Email)
	assert.Equal(t, code.Code, got.Code)
	assert.Equal(t, code.Attempts, got.Attempts)
	assert.True(t, code.CreatedAt.Equal(got.CreatedAt))
}

func TestEmailCodeRepo_Get_NotFound(t *testing.T) {
	m := &mockDynamo{}
	repo := NewEmailCodeRepo(m, "email_codes")
	m.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := repo.Get(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmailCodeRepo_UpdateAttempts(t *testing.T) {
	m := &mockDynamo{}
	repo := NewEmailCodeRepo(m, "email_codes")

	m.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		var attempts int
		_ = attributevalue.Unmarshal(in.ExpressionAttributeValues[":v0"], &attempts)
		return *in.UpdateExpression == "SET #f0 = :v0" &&
			in.ExpressionAttributeNames["#f0"] == "attempts" &&
			attempts == 1 &&
			*in.ConditionExpression == "attribute_exists(email)"
	})).Return(&dynamodb.UpdateItemOutput{}, nil).Once()

	require.NoError(t, repo.UpdateAttempts(context.Background(), "a@example.com", 1))
	m.AssertExpectations(t)
}

func TestEmailCodeRepo_UpdateAttempts_Missing(t *testing.T) {
	m := &mockDynamo{}
	repo := NewEmailCodeRepo(m, "email_codes")
	m.On("UpdateItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: strPtr("condition failed")})

	assert.ErrorIs(t, repo.UpdateAttempts(context.Background(), "a@example.com", 0), domain.ErrNotFound)
}

func TestEmailCodeRepo_Delete(t *testing.T) {
	m := &mockDynamo{}
	repo := NewEmailCodeRepo(m, "email_codes")
	m.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		s, _ := in.Key["email"].(*types.AttributeValueMemberS)
		return s != nil && s.Value == "a@example.com"
	})).Return(&dynamodb.DeleteItemOutput{}, nil).Once()

	require.NoError(t, repo.Delete(context.Background(), "a@example.com"))
	m.AssertExpectations(t)
}

func TestBootstrap_ToleratesExistingTable(t *testing.T) {
	m := &mockDynamo{}
	m.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return *in.TableName == "codes"
	})).Return(nil, &types.ResourceInUseException{Message: strPtr("exists")}).Once()
	m.On("UpdateTimeToLive", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateTimeToLiveInput) bool {
		return *in.TimeToLiveSpecification.AttributeName == "expires_at"
	})).Return(&dynamodb.UpdateTimeToLiveOutput{}, nil).Once()

	Bootstrap(context.Background(), m, config.DynamoTables{EmailCodes: "codes"})
	m.AssertExpectations(t)
}

func strPtr(s string) *string { return &s }
