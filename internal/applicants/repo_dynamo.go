package applicants

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoRepo.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoRepo implements Repo on a DynamoDB table keyed by "id".
// Name lookups scan with a filter; the table has no name index.
type DynamoRepo struct {
	DB    DynamoAPI
	Table string
}

type dynamoItem struct {
	ID            string    `dynamodbav:"id"`
	FullName      string    `dynamodbav:"fullName"`
	DOB           string    `dynamodbav:"dob"`
	Gender        string    `dynamodbav:"gender"`
	ImageURL      string    `dynamodbav:"imageUrl"`
	ExtractedInfo any       `dynamodbav:"extractedInfo,omitempty"`
	IsValid       bool      `dynamodbav:"isValid"`
	CreatedAt     time.Time `dynamodbav:"createdAt"`
}

func (it dynamoItem) toApplicant() Applicant {
	return Applicant(it)
}

func (r *DynamoRepo) Create(ctx context.Context, a Applicant) error {
	item, err := attributevalue.MarshalMap(dynamoItem(a))
	if err != nil {
		return fmt.Errorf("marshal applicant: %w", err)
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.Table),
		Item:      item,
	})
	return err
}

func (r *DynamoRepo) List(ctx context.Context) ([]Applicant, error) {
	return r.scan(ctx, nil)
}

func (r *DynamoRepo) FindFirstByName(ctx context.Context, fullName string) (Applicant, error) {
	matches, err := r.scan(ctx, &fullName)
	if err != nil {
		return Applicant{}, err
	}
	if len(matches) == 0 {
		return Applicant{}, ErrNotFound
	}
	return matches[0], nil
}

func (r *DynamoRepo) ValidateFirstByName(ctx context.Context, fullName string) (Applicant, error) {
	first, err := r.FindFirstByName(ctx, fullName)
	if err != nil {
		return Applicant{}, err
	}
	out, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.Table),
		Key:                 map[string]ddbtypes.AttributeValue{"id": &ddbtypes.AttributeValueMemberS{Value: first.ID}},
		UpdateExpression:    aws.String("SET isValid = :valid"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":valid": &ddbtypes.AttributeValueMemberBOOL{Value: true},
		},
		ReturnValues: ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return Applicant{}, ErrNotFound
		}
		return Applicant{}, err
	}
	var it dynamoItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return Applicant{}, fmt.Errorf("unmarshal applicant: %w", err)
	}
	return it.toApplicant(), nil
}

// scan reads every page, optionally filtered by name, ordered by createdAt then id.
func (r *DynamoRepo) scan(ctx context.Context, fullName *string) ([]Applicant, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.Table)}
	if fullName != nil {
		input.FilterExpression = aws.String("fullName = :name")
		input.ExpressionAttributeValues = map[string]ddbtypes.AttributeValue{
			":name": &ddbtypes.AttributeValueMemberS{Value: *fullName},
		}
	}

	out := []Applicant{}
	for {
		page, err := r.DB.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var items []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal applicants: %w", err)
		}
		for _, it := range items {
			out = append(out, it.toApplicant())
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*DynamoRepo)(nil)
