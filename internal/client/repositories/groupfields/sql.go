package groupfields

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/dbx"
)

const table = "pocket_group_fields"

var columns = []string{
	"id", "server_id", "user_id", "group_id", "server_group_id",
	"title", "is_hidden", "synchronized", "deleted", "timestamp_creation",
}

// SQLRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
	sb sq.StatementBuilderType
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, sb: dialect.Builder()}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return NewSQLRepository(db, dbx.SQLite)
}

func scan(s dbx.Scanner) (*models.GroupField, error) {
	gf := &models.GroupField{}
	err := s.Scan(&gf.ID, &gf.ServerID, &gf.UserID, &gf.GroupID, &gf.ServerGroupID,
		&gf.Title, &gf.IsHidden, &gf.Synchronized, &gf.Deleted, &gf.TimestampCreation)
	if err != nil {
		return nil, err
	}
	return gf, nil
}

func (r *SQLRepository) selectGroupFields(ctx context.Context, q sq.SelectBuilder) ([]*models.GroupField, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group fields query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select group fields: %w", err)
	}
	defer rows.Close()

	result := make([]*models.GroupField, 0)
	for rows.Next() {
		gf, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group field row: %w", err)
		}
		result = append(result, gf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group field rows: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) getOne(ctx context.Context, q sq.SelectBuilder) (*models.GroupField, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group field query: %w", err)
	}
	gf, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group field: %w", err)
	}
	return gf, nil
}

// List returns live group fields of the group parentID whose title contains
// search (case-insensitive), in insertion order.
func (r *SQLRepository) List(ctx context.Context, parentID int64, search string) ([]*models.GroupField, error) {
	q := r.sb.Select(columns...).From(table).Where(sq.Eq{"deleted": false})
	if parentID >= 0 {
		q = q.Where(sq.Eq{"group_id": parentID})
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(sq.Expr("LOWER(title) LIKE ?", like))
	}
	return r.selectGroupFields(ctx, q.OrderBy("id"))
}

// Get returns common.ErrNotFound for missing or tombstoned rows.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.GroupField, error) {
	return r.getOne(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"id": id, "deleted": false}))
}

// Persist inserts gf when its id is not assigned yet and upserts it otherwise.
// NewInsertion is never stored. The id stored in the database is returned.
func (r *SQLRepository) Persist(ctx context.Context, gf *models.GroupField) (int64, error) {
	if gf.TimestampCreation == 0 {
		gf.TimestampCreation = time.Now().Unix()
	}
	values := []any{gf.ServerID, gf.UserID, gf.GroupID, gf.ServerGroupID,
		gf.Title, gf.IsHidden, gf.Synchronized, gf.Deleted, gf.TimestampCreation}

	var q sq.InsertBuilder
	if models.IsNew(gf.ID) {
		q = r.sb.Insert(table).Columns(columns[1:]...).Values(values...).Suffix("RETURNING id")
	} else {
		q = r.sb.Insert(table).Columns(columns...).Values(append([]any{gf.ID}, values...)...).
			Suffix(dbx.UpsertSuffix("id", columns[1:]))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build group field persist: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to persist group field: %w", err)
	}
	return id, nil
}

// Delete tombstones a group field already known to the server, otherwise
// removes it.
// Unknown ids are ignored.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update(table).
		Set("deleted", true).
		Set("synchronized", false).
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"server_id": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group field tombstone: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to tombstone group field: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	return r.Purge(ctx, id)
}

func (r *SQLRepository) DeleteByParentID(ctx context.Context, parentID int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"group_id": parentID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group field delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete group fields of group %d: %w", parentID, err)
	}
	return nil
}

func (r *SQLRepository) CountByParentID(ctx context.Context, parentID int64) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").From(table).
		Where(sq.Eq{"group_id": parentID, "deleted": false}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build group field count: %w", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count group fields: %w", err)
	}
	return n, nil
}

// ListUnsynchronized returns every dirty row, tombstones included.
func (r *SQLRepository) ListUnsynchronized(ctx context.Context) ([]*models.GroupField, error) {
	return r.selectGroupFields(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"synchronized": false}).OrderBy("id"))
}

func (r *SQLRepository) GetByServerID(ctx context.Context, serverID int64) (*models.GroupField, error) {
	if serverID <= 0 {
		return nil, common.ErrNotFound
	}
	return r.getOne(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"server_id": serverID}))
}

// MarkSynchronized stores the server identity of gf and clears its dirty flag.
func (r *SQLRepository) MarkSynchronized(ctx context.Context, gf *models.GroupField) error {
	query, args, err := r.sb.Update(table).
		Set("server_id", gf.ServerID).
		Set("server_group_id", gf.ServerGroupID).
		Set("synchronized", true).
		Where(sq.Eq{"id": gf.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group field sync mark: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark group field %d synchronized: %w", gf.ID, err)
	}
	return nil
}

// Purge removes the row physically.
func (r *SQLRepository) Purge(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group field purge: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to purge group field %d: %w", id, err)
	}
	return nil
}
