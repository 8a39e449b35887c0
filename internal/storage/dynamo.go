package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"debarment_service/internal/config"
	"debarment_service/internal/models"
)

const (
	attrTenantID = "tenant_id"
	attrUsername = "username"
)

// DynamoAPI is the part of *dynamodb.Client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// swapped in tests
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newDynamoClient      = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) DynamoAPI {
		return dynamodb.NewFromConfig(cfg, optFns...)
	}
)

type DynamoStorage struct {
	client DynamoAPI
	table  string
}

func NewDynamoStorage(ctx context.Context, cfg config.DB) (*DynamoStorage, error) {
	const op = "storage.NewDynamoStorage"

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := newDynamoClient(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewDynamoStorageWithClient(client, cfg.TableName), nil
}

func NewDynamoStorageWithClient(client DynamoAPI, table string) *DynamoStorage {
	return &DynamoStorage{client: client, table: table}
}

func (d *DynamoStorage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// the condition is evaluated server-side, so two concurrent registrations
	// of the same key cannot both succeed
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#u)"),
		ExpressionAttributeNames: map[string]string{
			"#u": attrUsername,
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (d *DynamoStorage) GetUser(ctx context.Context, tenantID, username string) (models.User, error) {
	const op = "storage.GetUser"

	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			attrTenantID: &types.AttributeValueMemberS{Value: tenantID},
			attrUsername: &types.AttributeValueMemberS{Value: username},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(out.Item) == 0 {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// EnsureTable creates the users table if it is missing. Meant for DynamoDB
// Local; deployed tables come from infrastructure code.
func (d *DynamoStorage) EnsureTable(ctx context.Context) error {
	const op = "storage.EnsureTable"

	_, err := d.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(d.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrTenantID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrUsername), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrTenantID), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrUsername), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (d *DynamoStorage) Close() {}
