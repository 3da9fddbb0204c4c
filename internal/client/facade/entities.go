package facade

import (
	"context"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/fields"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/groupfields"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/groups"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

type (
	Groups      = Facade[*models.Group]
	GroupFields = Facade[*models.GroupField]
)

func NewGroups(owner Owner, repo groups.Repository, logger logging.Logger) *Groups {
	return New[*models.Group](owner, repo, logger, TagGroup)
}

func NewGroupFields(owner Owner, repo groupfields.Repository, logger logging.Logger) *GroupFields {
	return New[*models.GroupField](owner, repo, logger, TagGroupField)
}

// Fields adds the group-field scoped operations to the generic facade.
type Fields struct {
	*Facade[*models.Field]
	repo fields.Repository
}

func NewFields(owner Owner, repo fields.Repository, logger logging.Logger) *Fields {
	return &Fields{
		Facade: New[*models.Field](owner, repo, logger, TagField),
		repo:   repo,
	}
}

// ListByGroupField returns the live fields of one category, never nil.
func (f *Fields) ListByGroupField(ctx context.Context, groupFieldID int64) []*models.Field {
	if f == nil || f.repo == nil {
		return []*models.Field{}
	}
	rows, err := f.repo.ListByGroupFieldID(ctx, groupFieldID)
	if err != nil {
		f.log.Error(ctx, "list by group field failed", "group_field_id", groupFieldID, "error", err)
		return []*models.Field{}
	}
	return rows
}

func (f *Fields) DeleteByGroupField(ctx context.Context, groupFieldID int64) common.Stat {
	if f == nil || f.repo == nil {
		return common.StatError
	}
	if err := f.repo.DeleteByGroupFieldID(ctx, groupFieldID); err != nil {
		f.log.Error(ctx, "delete by group field failed", "group_field_id", groupFieldID, "error", err)
		return common.StatError
	}
	return common.StatReady
}

// CountChildren is nil-safe on the embedding wrapper as well.
func (f *Fields) CountChildren(ctx context.Context, parent *models.Group) int {
	if f == nil {
		return -1
	}
	return f.Facade.CountChildren(ctx, parent)
}
