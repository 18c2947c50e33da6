package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-verify-reset/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table. It exposes
// the minimal find/patch contract the verification gateway requires plus Put
// and Get for bootstrapping and session population.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Find returns every user matching the AND of the string-equality query.
// Attributes holding NULL never match. Scan is used rather than a GSI query
// because the gateway queries arbitrary allow-listed attributes, including
// transient token fields that carry no index.
func (r *UserRepo) Find(ctx context.Context, query map[string]string) ([]domain.User, error) {
	fe, err := buildFilterExpr(query)
	if err != nil {
		return nil, fmt.Errorf("find users: %v: %w", err, domain.ErrInvalidInput)
	}

	var users []domain.User
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          aws.String(fe.Expr),
			ExpressionAttributeNames:  fe.Names,
			ExpressionAttributeValues: fe.Values,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan users: %v: %w", err, domain.ErrInternal)
		}
		var page []domain.User
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal users: %v: %w", err, domain.ErrInternal)
		}
		users = append(users, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return users, nil
}

// Patch applies a partial update by id. Map values of nil clear the attribute
// to NULL. updated_at is stamped on every patch.
func (r *UserRepo) Patch(ctx context.Context, userID string, updates map[string]interface{}) error {
	stamped := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		stamped[k] = v
	}
	stamped["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	ue, err := buildUpdateExpr(stamped)
	if err != nil {
		return fmt.Errorf("patch user: %v: %w", err, domain.ErrInvalidInput)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update user: %v: %w", err, domain.ErrInternal)
	}
	return nil
}
