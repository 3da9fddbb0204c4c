package fields

import (
	"context"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
)

type Repository interface {
	List(ctx context.Context, parentID int64, search string) ([]*models.Field, error)
	Get(ctx context.Context, id int64) (*models.Field, error)
	Persist(ctx context.Context, f *models.Field) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByParentID(ctx context.Context, parentID int64) error
	CountByParentID(ctx context.Context, parentID int64) (int, error)

	ListUnsynchronized(ctx context.Context) ([]*models.Field, error)
	GetByServerID(ctx context.Context, serverID int64) (*models.Field, error)
	MarkSynchronized(ctx context.Context, f *models.Field) error
	Purge(ctx context.Context, id int64) error

	ListByGroupFieldID(ctx context.Context, groupFieldID int64) ([]*models.Field, error)
	DeleteByGroupFieldID(ctx context.Context, groupFieldID int64) error
}
