package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/judicial-monitor/internal/domain"
)

// SnapshotRepo provides typed DynamoDB operations for the process_snapshots table.
type SnapshotRepo struct {
	client    API
	tableName string
}

func NewSnapshotRepo(client API, tableName string) *SnapshotRepo {
	return &SnapshotRepo{client: client, tableName: tableName}
}

// Get returns the snapshot for processNumber, or nil without error when the case
// has never been observed.
func (r *SnapshotRepo) Get(ctx context.Context, processNumber string) (*domain.ProcessSnapshot, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldProcessNumber, processNumber),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var s domain.ProcessSnapshot
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// Upsert overwrites the whole item keyed by process_number. Nil fields are
// written as NULL so a stale value never survives the overwrite.
func (r *SnapshotRepo) Upsert(ctx context.Context, s *domain.ProcessSnapshot) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
