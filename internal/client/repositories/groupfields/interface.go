package groupfields

import (
	"context"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
)

type Repository interface {
	List(ctx context.Context, parentID int64, search string) ([]*models.GroupField, error)
	Get(ctx context.Context, id int64) (*models.GroupField, error)
	Persist(ctx context.Context, gf *models.GroupField) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByParentID(ctx context.Context, parentID int64) error
	CountByParentID(ctx context.Context, parentID int64) (int, error)

	ListUnsynchronized(ctx context.Context) ([]*models.GroupField, error)
	GetByServerID(ctx context.Context, serverID int64) (*models.GroupField, error)
	MarkSynchronized(ctx context.Context, gf *models.GroupField) error
	Purge(ctx context.Context, id int64) error
}
