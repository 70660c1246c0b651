package dynamo

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type item = map[string]types.AttributeValue

// fakeDynamo is an in-memory stand-in for the DynamoDB API. It understands the
// small expression dialect the repos emit: "#a = :v" clauses joined by AND,
// attribute_exists/attribute_not_exists conditions and "SET #f = :v" updates.
type fakeDynamo struct {
	mu     sync.Mutex
	keys   map[string][]string // table -> key attribute names
	tables map[string][]item

	putCalls   int
	scanPages  int // when > 0, Scan returns one item per page
	queryPage  int // when > 0, Query evaluates at most this many items per call
	queryCalls int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		keys: map[string][]string{
			"favorites":     {fieldUserID, fieldCaseNumber},
			"snapshots":     {fieldProcessNumber},
			"notifications": {fieldNotificationID},
			"users":         {fieldUserID},
		},
		tables: map[string][]item{},
	}
}

func (f *fakeDynamo) indexOf(table string, key item) int {
	for i, it := range f.tables[table] {
		match := true
		for _, k := range f.keys[table] {
			if !reflect.DeepEqual(it[k], key[k]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func (f *fakeDynamo) keyOf(table string, it item) item {
	key := item{}
	for _, k := range f.keys[table] {
		key[k] = it[k]
	}
	return key
}

func checkCondition(cond *string, names map[string]string, exists bool) error {
	if cond == nil {
		return nil
	}
	c := *cond
	switch {
	case strings.HasPrefix(c, "attribute_not_exists(") && exists,
		strings.HasPrefix(c, "attribute_exists(") && !exists:
		return &types.ConditionalCheckFailedException{Message: &c}
	}
	return nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	table := *in.TableName
	idx := f.indexOf(table, f.keyOf(table, in.Item))
	if err := checkCondition(in.ConditionExpression, in.ExpressionAttributeNames, idx >= 0); err != nil {
		return nil, err
	}
	if idx >= 0 {
		f.tables[table][idx] = in.Item
	} else {
		f.tables[table] = append(f.tables[table], in.Item)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.indexOf(*in.TableName, in.Key)
	if idx < 0 {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: f.tables[*in.TableName][idx]}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := *in.TableName
	idx := f.indexOf(table, in.Key)
	if err := checkCondition(in.ConditionExpression, in.ExpressionAttributeNames, idx >= 0); err != nil {
		return nil, err
	}
	if idx >= 0 {
		f.tables[table] = append(f.tables[table][:idx], f.tables[table][idx+1:]...)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := *in.TableName
	idx := f.indexOf(table, in.Key)
	if idx < 0 {
		it := item{}
		for k, v := range in.Key {
			it[k] = v
		}
		f.tables[table] = append(f.tables[table], it)
		idx = len(f.tables[table]) - 1
	}
	it := f.tables[table][idx]
	for _, assign := range strings.Split(strings.TrimPrefix(*in.UpdateExpression, "SET "), ", ") {
		lhs, rhs, ok := strings.Cut(assign, " = ")
		if !ok {
			return nil, fmt.Errorf("fake: unsupported update %q", assign)
		}
		it[in.ExpressionAttributeNames[lhs]] = in.ExpressionAttributeValues[rhs]
	}
	return &dynamodb.UpdateItemOutput{Attributes: it}, nil
}

func matches(it item, expr *string, names map[string]string, values map[string]types.AttributeValue) bool {
	if expr == nil {
		return true
	}
	for _, clause := range strings.Split(*expr, " AND ") {
		lhs, rhs, ok := strings.Cut(clause, " = ")
		if !ok {
			return false
		}
		attr := lhs
		if strings.HasPrefix(lhs, "#") {
			attr = names[lhs]
		}
		if !reflect.DeepEqual(it[attr], values[rhs]) {
			return false
		}
	}
	return true
}

// Query pages like DynamoDB: Limit and the page size cap the items evaluated,
// and the filter is applied to each page afterwards.
func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	table := *in.TableName
	var candidates []item
	for _, it := range f.tables[table] {
		if matches(it, in.KeyConditionExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues) {
			candidates = append(candidates, it)
		}
	}
	start := 0
	if in.ExclusiveStartKey != nil {
		for i, it := range candidates {
			if reflect.DeepEqual(f.keyOf(table, it), in.ExclusiveStartKey) {
				start = i + 1
				break
			}
		}
	}
	size := len(candidates) - start
	if f.queryPage > 0 && f.queryPage < size {
		size = f.queryPage
	}
	if in.Limit != nil && int(*in.Limit) < size {
		size = int(*in.Limit)
	}
	if size <= 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	evaluated := candidates[start : start+size]
	out := &dynamodb.QueryOutput{}
	for _, it := range evaluated {
		if matches(it, in.FilterExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues) {
			out.Items = append(out.Items, it)
		}
	}
	if start+size < len(candidates) {
		out.LastEvaluatedKey = f.keyOf(table, evaluated[size-1])
	}
	return out, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.tables[*in.TableName]
	if f.scanPages == 0 {
		return &dynamodb.ScanOutput{Items: all}, nil
	}
	start := 0
	if in.ExclusiveStartKey != nil {
		start = f.indexOf(*in.TableName, in.ExclusiveStartKey) + 1
	}
	if start >= len(all) {
		return &dynamodb.ScanOutput{}, nil
	}
	out := &dynamodb.ScanOutput{Items: all[start : start+1]}
	if start+1 < len(all) {
		out.LastEvaluatedKey = f.keyOf(*in.TableName, all[start])
	}
	return out, nil
}
