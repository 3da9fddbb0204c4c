package groups

import (
	"context"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
)

type Repository interface {
	List(ctx context.Context, parentID int64, search string) ([]*models.Group, error)
	Get(ctx context.Context, id int64) (*models.Group, error)
	Persist(ctx context.Context, g *models.Group) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByParentID(ctx context.Context, parentID int64) error
	CountByParentID(ctx context.Context, parentID int64) (int, error)

	ListUnsynchronized(ctx context.Context) ([]*models.Group, error)
	GetByServerID(ctx context.Context, serverID int64) (*models.Group, error)
	MarkSynchronized(ctx context.Context, g *models.Group) error
	Purge(ctx context.Context, id int64) error
}
