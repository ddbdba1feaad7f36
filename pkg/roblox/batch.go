package roblox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bloxkit/rbx-client/internal/constants"
)

// BatchOperationType identifies what a batch operation does.
type BatchOperationType string

const (
	BatchOpGetUser         BatchOperationType = "get_user"
	BatchOpGetAsset        BatchOperationType = "get_asset"
	BatchOpGetGroup        BatchOperationType = "get_group"
	BatchOpGetUniverse     BatchOperationType = "get_universe"
	BatchOpFavoriteAsset   BatchOperationType = "favorite_asset"
	BatchOpUnfavoriteAsset BatchOperationType = "unfavorite_asset"
)

// ErrUnknownBatchOperation indicates an unrecognized operation type.
var ErrUnknownBatchOperation = errors.New("unknown batch operation type")

// BatchOperation is one unit of work in a batch.
type BatchOperation struct {
	// Type selects the operation.
	Type BatchOperationType

	// ID is the target user, asset, group, or universe ID.
	ID int64

	// UserID is the acting user for favorite operations.
	UserID int64

	// Callback, if set, runs with the result as soon as the
	// operation completes.
	Callback func(result *BatchResult)
}

// BatchResult is the outcome of one batch operation. Value holds the
// fetched DTO for get operations and is nil for mutations.
type BatchResult struct {
	Operation BatchOperation
	Value     any
	Err       error
	Duration  time.Duration
}

// BatchResults is the ordered outcome of a batch.
type BatchResults []BatchResult

// Succeeded returns the number of operations that completed without
// error.
func (r BatchResults) Succeeded() int {
	n := 0

	for _, result := range r {
		if result.Err == nil {
			n++
		}
	}

	return n
}

// Failed returns the number of operations that returned an error.
func (r BatchResults) Failed() int {
	return len(r) - r.Succeeded()
}

// Err joins every operation error, or returns nil when all
// succeeded.
func (r BatchResults) Err() error {
	var errs []error

	for _, result := range r {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}

	return errors.Join(errs...)
}

// BatchExecutor runs batches of API operations with bounded
// concurrency.
type BatchExecutor struct {
	client      Client
	concurrency int
}

// NewBatchExecutor creates an executor over the client. A
// non-positive concurrency uses the default limit.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{client: client, concurrency: concurrency}
}

// Execute runs every operation, at most the configured number
// concurrently, and returns results in operation order.
func (e *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) BatchResults {
	results := make(BatchResults, len(operations))
	sem := make(chan struct{}, e.concurrency)

	var wg sync.WaitGroup

	for i, op := range operations {
		wg.Add(1)

		go func(i int, op BatchOperation) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = BatchResult{Operation: op, Err: ctx.Err()}

				return
			}

			start := time.Now()
			value, err := e.run(ctx, op)

			result := BatchResult{
				Operation: op,
				Value:     value,
				Err:       err,
				Duration:  time.Since(start),
			}

			if op.Callback != nil {
				op.Callback(&result)
			}

			results[i] = result
		}(i, op)
	}

	wg.Wait()

	return results
}

func (e *BatchExecutor) run(ctx context.Context, op BatchOperation) (any, error) {
	switch op.Type {
	case BatchOpGetUser:
		return e.client.Users().Get(ctx, op.ID)
	case BatchOpGetAsset:
		return e.client.Assets().ProductInfo(ctx, op.ID)
	case BatchOpGetGroup:
		return e.client.Groups().Get(ctx, op.ID)
	case BatchOpGetUniverse:
		details, err := e.client.Games().Details(ctx, op.ID)
		if err != nil {
			return nil, err
		}

		if len(details) == 0 {
			return nil, ErrGameNotFound
		}

		return &details[0], nil
	case BatchOpFavoriteAsset:
		return nil, e.client.Assets().CreateFavorite(ctx, op.UserID, op.ID)
	case BatchOpUnfavoriteAsset:
		return nil, e.client.Assets().DeleteFavorite(ctx, op.UserID, op.ID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBatchOperation, op.Type)
	}
}

// BatchBuilder assembles a batch fluently.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates an empty builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{}
}

// GetUser queues a user profile fetch.
func (b *BatchBuilder) GetUser(userID int64) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{Type: BatchOpGetUser, ID: userID})

	return b
}

// GetUsers queues a profile fetch per user ID.
func (b *BatchBuilder) GetUsers(userIDs ...int64) *BatchBuilder {
	for _, id := range userIDs {
		b.GetUser(id)
	}

	return b
}

// GetAsset queues a product info fetch.
func (b *BatchBuilder) GetAsset(assetID int64) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{Type: BatchOpGetAsset, ID: assetID})

	return b
}

// GetGroup queues a group details fetch.
func (b *BatchBuilder) GetGroup(groupID int64) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{Type: BatchOpGetGroup, ID: groupID})

	return b
}

// GetUniverse queues a universe details fetch.
func (b *BatchBuilder) GetUniverse(universeID int64) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{Type: BatchOpGetUniverse, ID: universeID})

	return b
}

// FavoriteAsset queues an asset favorite on behalf of userID.
func (b *BatchBuilder) FavoriteAsset(userID, assetID int64) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		Type:   BatchOpFavoriteAsset,
		ID:     assetID,
		UserID: userID,
	})

	return b
}

// UnfavoriteAsset queues an asset unfavorite on behalf of userID.
func (b *BatchBuilder) UnfavoriteAsset(userID, assetID int64) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		Type:   BatchOpUnfavoriteAsset,
		ID:     assetID,
		UserID: userID,
	})

	return b
}

// WithCallback attaches a callback to the most recently queued
// operation.
func (b *BatchBuilder) WithCallback(callback func(result *BatchResult)) *BatchBuilder {
	if len(b.operations) > 0 {
		b.operations[len(b.operations)-1].Callback = callback
	}

	return b
}

// Build returns the queued operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// Execute builds the batch and runs it on the executor.
func (b *BatchBuilder) Execute(ctx context.Context, executor *BatchExecutor) BatchResults {
	return executor.Execute(ctx, b.Build())
}
