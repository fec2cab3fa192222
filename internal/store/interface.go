package store

import (
	"context"

	"github.com/chainscribe/concord/internal/core/model"
)

// GraphStore persists graphs and comparison results. The engine itself
// never touches storage; handlers call the store before and after the
// pure comparison.
type GraphStore interface {
	SaveGraph(ctx context.Context, doc model.GraphDocument) (string, error)
	LoadGraph(ctx context.Context, id string) (model.GraphDocument, error)
	SaveComparison(ctx context.Context, graphA, graphB string, result *model.ComparisonResult) (string, error)
	LoadComparison(ctx context.Context, id string) (*model.ComparisonResult, error)
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
