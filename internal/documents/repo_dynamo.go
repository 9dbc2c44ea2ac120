package documents

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
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoRepo implements DocumentsRepo on a DynamoDB table keyed by "id".
type DynamoRepo struct {
	DB    DynamoAPI
	Table string
}

type dynamoItem struct {
	ID           string     `dynamodbav:"id"`
	UserID       string     `dynamodbav:"userId"`
	DocumentType string     `dynamodbav:"documentType"`
	URL          string     `dynamodbav:"url"`
	StorageKey   string     `dynamodbav:"storageKey,omitempty"`
	FileName     string     `dynamodbav:"fileName,omitempty"`
	MimeType     string     `dynamodbav:"mimeType,omitempty"`
	SizeBytes    int64      `dynamodbav:"sizeBytes"`
	Status       string     `dynamodbav:"status"`
	UploadedAt   time.Time  `dynamodbav:"uploadedAt"`
	ReviewedAt   *time.Time `dynamodbav:"reviewedAt,omitempty"`
	ExtractedDOB string     `dynamodbav:"extractedDob,omitempty"`
	DOBMatch     *bool      `dynamodbav:"dobMatch,omitempty"`
	VerifiedAt   *time.Time `dynamodbav:"verifiedAt,omitempty"`
}

func toItem(doc Document) dynamoItem {
	return dynamoItem{
		ID:           doc.ID,
		UserID:       doc.UserID,
		DocumentType: doc.DocumentType,
		URL:          doc.URL,
		StorageKey:   doc.StorageKey,
		FileName:     doc.FileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		Status:       doc.Status,
		UploadedAt:   doc.UploadedAt,
		ReviewedAt:   doc.ReviewedAt,
		ExtractedDOB: doc.ExtractedDOB,
		DOBMatch:     doc.DOBMatch,
		VerifiedAt:   doc.VerifiedAt,
	}
}

func (it dynamoItem) toDocument() Document {
	return Document{
		ID:           it.ID,
		UserID:       it.UserID,
		DocumentType: it.DocumentType,
		URL:          it.URL,
		StorageKey:   it.StorageKey,
		FileName:     it.FileName,
		MimeType:     it.MimeType,
		SizeBytes:    it.SizeBytes,
		Status:       it.Status,
		UploadedAt:   it.UploadedAt,
		ReviewedAt:   it.ReviewedAt,
		ExtractedDOB: it.ExtractedDOB,
		DOBMatch:     it.DOBMatch,
		VerifiedAt:   it.VerifiedAt,
	}
}

func (r *DynamoRepo) key(id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{"id": &ddbtypes.AttributeValueMemberS{Value: id}}
}

// Create inserts a new document item.
func (r *DynamoRepo) Create(ctx context.Context, doc Document) error {
	if doc.Status == "" {
		doc.Status = StatusPending
	}
	item, err := attributevalue.MarshalMap(toItem(doc))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.Table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	return err
}

// GetByID fetches one document.
func (r *DynamoRepo) GetByID(ctx context.Context, id string) (Document, error) {
	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.Table),
		Key:            r.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Document{}, err
	}
	if len(out.Item) == 0 {
		return Document{}, ErrNotFound
	}
	var it dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return it.toDocument(), nil
}

// List scans the whole table and orders the result by upload time.
func (r *DynamoRepo) List(ctx context.Context) ([]Document, error) {
	out := []Document{}
	var startKey map[string]ddbtypes.AttributeValue
	for {
		page, err := r.DB.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.Table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var items []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
		for _, it := range items {
			out = append(out, it.toDocument())
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		startKey = page.LastEvaluatedKey
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

// UpdateStatus sets status and reviewedAt on an existing item.
func (r *DynamoRepo) UpdateStatus(ctx context.Context, id, status string, reviewedAt time.Time) (Document, error) {
	values, err := attributevalue.MarshalMap(map[string]any{
		":status":     status,
		":reviewedAt": reviewedAt,
	})
	if err != nil {
		return Document{}, fmt.Errorf("marshal status update: %w", err)
	}
	return r.update(ctx, id, "SET #status = :status, reviewedAt = :reviewedAt", map[string]string{"#status": "status"}, values)
}

// UpdateVerification stores the DOB verification outcome.
func (r *DynamoRepo) UpdateVerification(ctx context.Context, id string, v Verification) (Document, error) {
	values, err := attributevalue.MarshalMap(map[string]any{
		":dob":        v.ExtractedDOB,
		":match":      v.DOBMatch,
		":verifiedAt": v.VerifiedAt,
	})
	if err != nil {
		return Document{}, fmt.Errorf("marshal verification update: %w", err)
	}
	return r.update(ctx, id, "SET extractedDob = :dob, dobMatch = :match, verifiedAt = :verifiedAt", nil, values)
}

func (r *DynamoRepo) update(ctx context.Context, id, expr string, names map[string]string, values map[string]ddbtypes.AttributeValue) (Document, error) {
	out, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.Table),
		Key:                       r.key(id),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	var it dynamoItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return it.toDocument(), nil
}

// Delete removes a document item.
func (r *DynamoRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.Table),
		Key:                 r.key(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var condErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

var _ DocumentsRepo = (*DynamoRepo)(nil)
