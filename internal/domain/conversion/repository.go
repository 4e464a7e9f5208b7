package conversion

import (
	"context"

	"convert-files-go/internal/domain/priority"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	LockConvertFile(ctx context.Context, convertFileID int64) error
	ListConvertFiles(ctx context.Context, filter ListFilter) ([]ConvertFile, int64, error)
	GetConvertFileByID(ctx context.Context, id int64) (*ConvertFile, error)
	CreateConvertFile(ctx context.Context, file *ConvertFile) error
	UpdateConvertFile(ctx context.Context, file *ConvertFile) error
	// ListProperties returns every property of the convert file, soft-deleted
	// ones included.
	ListProperties(ctx context.Context, convertFileID int64) ([]ConvertProperty, error)
	GetPropertyByID(ctx context.Context, convertFileID, id int64) (*ConvertProperty, error)
	CreateProperty(ctx context.Context, property *ConvertProperty) error
	UpdateProperty(ctx context.Context, property *ConvertProperty) error
	SoftDeleteProperty(ctx context.Context, convertFileID, id int64) (bool, error)
	ApplyPriorityUpdates(ctx context.Context, updates []priority.Update) error
}
