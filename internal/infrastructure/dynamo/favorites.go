package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/judicial-monitor/internal/domain"
)

// FavoriteRepo provides typed DynamoDB operations for the favorite_processes table.
type FavoriteRepo struct {
	client    API
	tableName string
}

func NewFavoriteRepo(client API, tableName string) *FavoriteRepo {
	return &FavoriteRepo{client: client, tableName: tableName}
}

// Create stores a new favorite. A second favorite for the same (user, case) pair
// fails with domain.ErrConflict.
func (r *FavoriteRepo) Create(ctx context.Context, f *domain.FavoriteProcess) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal favorite: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldUserID},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("case %s already in favorites: %w", f.CaseNumber, domain.ErrConflict)
	}
	return err
}

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]domain.FavoriteProcess, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		KeyConditionExpression:   aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldUserID},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	favorites := []domain.FavoriteProcess{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// ListAll scans every favorite across all users, following pagination to the end.
func (r *FavoriteRepo) ListAll(ctx context.Context) ([]domain.FavoriteProcess, error) {
	var (
		favorites []domain.FavoriteProcess
		startKey  map[string]types.AttributeValue
	)
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan favorites: %w", err)
		}
		var page []domain.FavoriteProcess
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		favorites = append(favorites, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return favorites, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *FavoriteRepo) Delete(ctx context.Context, userID, caseNumber string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      compositeKey(fieldUserID, userID, fieldCaseNumber, caseNumber),
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldUserID},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("favorite not found: %w", domain.ErrNotFound)
	}
	return err
}
