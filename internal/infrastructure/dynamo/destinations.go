package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/travel-atlas/internal/domain"
)

// DestinationRepo reads curated destinations.
// PK: country, SK: region_key (the region name, or "#" when region is null).
type DestinationRepo struct {
	client    API
	tableName string
}

func NewDestinationRepo(client API, tableName string) *DestinationRepo {
	return &DestinationRepo{client: client, tableName: tableName}
}

type destinationItem struct {
	domain.Destination
	RegionKey string `dynamodbav:"region_key"`
}

func regionKey(region *string) string {
	if region == nil || *region == "" {
		return nullRegion
	}
	return *region
}

// Find returns the destination for country and region; a nil region selects the
// country-level entry.
func (r *DestinationRepo) Find(ctx context.Context, country string, region *string) (*domain.Destination, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldCountry, country, fieldRegionKey, regionKey(region)),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("destination not found: %w", domain.ErrNotFound)
	}
	var it destinationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return &it.Destination, nil
}

func (r *DestinationRepo) Put(ctx context.Context, d *domain.Destination) error {
	item, err := attributevalue.MarshalMap(destinationItem{Destination: *d, RegionKey: regionKey(d.Region)})
	if err != nil {
		return fmt.Errorf("marshal destination: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
