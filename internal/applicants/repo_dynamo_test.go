package applicants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamo struct {
	items []map[string]ddbtypes.AttributeValue
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.items = append(f.items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		if name, ok := in.ExpressionAttributeValues[":name"]; ok {
			if item["fullName"].(*ddbtypes.AttributeValueMemberS).Value != name.(*ddbtypes.AttributeValueMemberS).Value {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	id := in.Key["id"].(*ddbtypes.AttributeValueMemberS).Value
	for _, item := range f.items {
		if item["id"].(*ddbtypes.AttributeValueMemberS).Value == id {
			item["isValid"] = in.ExpressionAttributeValues[":valid"]
			return &dynamodb.UpdateItemOutput{Attributes: item}, nil
		}
	}
	return nil, &ddbtypes.ConditionalCheckFailedException{}
}

func TestDynamoRepoPicksEarliestByName(t *testing.T) {
	fake := &fakeDynamo{}
	repo := &DynamoRepo{DB: fake, Table: "applicants"}
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	// Inserted out of order so the repo must sort by createdAt.
	_ = repo.Create(ctx, Applicant{ID: "late", FullName: "Asha Rao", CreatedAt: base.Add(time.Hour)})
	_ = repo.Create(ctx, Applicant{ID: "other", FullName: "Ravi", CreatedAt: base})
	_ = repo.Create(ctx, Applicant{ID: "early", FullName: "Asha Rao", CreatedAt: base, ExtractedInfo: map[string]any{"dob": "05/08/1998"}})

	first, err := repo.FindFirstByName(ctx, "Asha Rao")
	if err != nil {
		t.Fatalf("FindFirstByName: %v", err)
	}
	if info, _ := first.ExtractedInfo.(map[string]any); first.ID != "early" || info["dob"] != "05/08/1998" {
		t.Fatalf("unexpected first match %+v", first)
	}

	validated, err := repo.ValidateFirstByName(ctx, "Asha Rao")
	if err != nil {
		t.Fatalf("ValidateFirstByName: %v", err)
	}
	if validated.ID != "early" || !validated.IsValid {
		t.Fatalf("unexpected validated record %+v", validated)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 applicants, got %d", len(all))
	}

	if _, err := repo.ValidateFirstByName(ctx, "Nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
