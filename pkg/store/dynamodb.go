package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

//go:generate mockgen -destination mock_dynamodb_test.go -package store github.com/asecurityteam/taskfull/pkg/store DynamoDBAPI

// DynamoDBAPI is the subset of the DynamoDB client used by the store. It
// is satisfied by *dynamodb.Client.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDB is a domain.TaskStore backed by a single DynamoDB table whose
// hash key is the taskId attribute.
type DynamoDB struct {
	Client    DynamoDBAPI
	TableName string
}

var _ domain.TaskStore = (*DynamoDB)(nil)

func (s *DynamoDB) key(taskID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		domain.AttributeTaskID: &types.AttributeValueMemberS{Value: taskID},
	}
}

// Put writes the record unconditionally.
func (s *DynamoDB) Put(ctx context.Context, task domain.Task) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return domain.InternalError{Reason: fmt.Errorf("marshal task: %w", err)}
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.TableName),
		Item:      item,
	})
	if err != nil {
		return domain.StoreError{Op: "put", Reason: err}
	}
	return nil
}

// Get performs a strongly consistent read of one record.
func (s *DynamoDB) Get(ctx context.Context, taskID string) (domain.Task, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.TableName),
		Key:            s.key(taskID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Task{}, domain.StoreError{Op: "get", Reason: err}
	}
	if len(out.Item) == 0 {
		return domain.Task{}, domain.NotFoundError{ID: taskID}
	}
	var task domain.Task
	if err := attributevalue.UnmarshalMap(out.Item, &task); err != nil {
		return domain.Task{}, domain.InternalError{Reason: fmt.Errorf("unmarshal task: %w", err)}
	}
	return task, nil
}

// Scan reads the full table, following LastEvaluatedKey until every page
// has been consumed.
func (s *DynamoDB) Scan(ctx context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	paginator := dynamodb.NewScanPaginator(s.Client, &dynamodb.ScanInput{
		TableName: aws.String(s.TableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, domain.StoreError{Op: "scan", Reason: err}
		}
		var batch []domain.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, domain.InternalError{Reason: fmt.Errorf("unmarshal tasks: %w", err)}
		}
		tasks = append(tasks, batch...)
	}
	return tasks, nil
}

// Update sets only the attributes named in changes. The write is conditioned
// on the record existing so it can never create a new record.
func (s *DynamoDB) Update(ctx context.Context, taskID string, changes domain.TaskChanges) error {
	if len(changes) == 0 {
		return domain.ValidationError{Reason: "No updatable fields supplied"}
	}
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)

	var update expression.UpdateBuilder
	for i, name := range names {
		if i == 0 {
			update = expression.Set(expression.Name(name), expression.Value(changes[name]))
			continue
		}
		update = update.Set(expression.Name(name), expression.Value(changes[name]))
	}
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(domain.AttributeTaskID))).
		Build()
	if err != nil {
		return domain.InternalError{Reason: fmt.Errorf("build update expression: %w", err)}
	}
	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.TableName),
		Key:                       s.key(taskID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return s.mutationError("update", taskID, err)
}

// Delete removes the record only if it exists.
func (s *DynamoDB) Delete(ctx context.Context, taskID string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(domain.AttributeTaskID))).
		Build()
	if err != nil {
		return domain.InternalError{Reason: fmt.Errorf("build delete expression: %w", err)}
	}
	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.TableName),
		Key:                      s.key(taskID),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	return s.mutationError("delete", taskID, err)
}

// mutationError separates a failed existence condition from a genuine
// store failure.
func (s *DynamoDB) mutationError(op string, taskID string, err error) error {
	if err == nil {
		return nil
	}
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return domain.NotFoundError{ID: taskID}
	}
	return domain.StoreError{Op: op, Reason: err}
}
