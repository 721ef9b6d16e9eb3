package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/tubesense/internal/clients"
	"github.com/spacesedan/tubesense/internal/models"
)

const (
	COMMENTS_TABLE_NAME = "Comments"

	// DynamoDB caps BatchWriteItem at 25 items per call.
	maxBatchSize = 25

	// Archived comments expire after a week; the snapshot is the durable
	// record, the raw comments only support debugging a recent pass.
	commentTTL = 7 * 24 * time.Hour
)

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// BatchInsertComments archives classified comments for a video. Writes go out
// in 25-item chunks with doubling-backoff retries on unprocessed items.
func BatchInsertComments(ctx context.Context, comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	for start := 0; start < len(comments); start += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := start + maxBatchSize
		if end > len(comments) {
			end = len(comments)
		}

		writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
		for _, comment := range comments[start:end] {
			item, err := CommentToDynamoDBItem(comment)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				COMMENTS_TABLE_NAME: writeRequests,
			},
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to batch write comments: %w", err)
		}

		retryCount := 0
		backoff := clients.INITIAL_BACKOFF
		for len(out.UnprocessedItems) > 0 && retryCount < clients.MAX_RETRIES {
			time.Sleep(backoff)
			backoff = clients.NextBackoff(backoff)

			slog.Warn("[DynamoDB] Retrying unprocessed comment items...",
				slog.Int("attempt", retryCount+1),
				slog.Int("remaining", len(out.UnprocessedItems[COMMENTS_TABLE_NAME])))

			out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Retry error %w", err)
			}
			retryCount++
		}

		if len(out.UnprocessedItems) > 0 {
			slog.Error("[DynamoDB] Some comments failed after retries",
				slog.Int("remaining", len(out.UnprocessedItems[COMMENTS_TABLE_NAME])))
		}
	}

	slog.Info("[DynamoDB] Successfully archived comments",
		slog.Int("count", len(comments)))
	return nil
}

func CommentToDynamoDBItem(comment *models.Comment) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(comment)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal comment %d: %w", comment.ID, err)
	}

	item["ttl"] = &types.AttributeValueMemberN{
		Value: fmt.Sprintf("%d", time.Now().Add(commentTTL).Unix()),
	}
	return item, nil
}
