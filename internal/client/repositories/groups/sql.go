package groups

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

const table = "pocket_groups"

var columns = []string{
	"id", "server_id", "user_id", "group_id", "server_group_id",
	"title", "icon", "note", "is_hidden", "synchronized", "deleted", "timestamp_creation",
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

func scan(s dbx.Scanner) (*models.Group, error) {
	g := &models.Group{}
	err := s.Scan(&g.ID, &g.ServerID, &g.UserID, &g.GroupID, &g.ServerGroupID,
		&g.Title, &g.Icon, &g.Note, &g.IsHidden, &g.Synchronized, &g.Deleted, &g.TimestampCreation)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLRepository) selectGroups(ctx context.Context, q sq.SelectBuilder) ([]*models.Group, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build groups query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select groups: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Group, 0)
	for rows.Next() {
		g, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group rows: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) getOne(ctx context.Context, q sq.SelectBuilder) (*models.Group, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group query: %w", err)
	}
	g, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// List returns live groups under parentID whose title or note contains search
// (case-insensitive), in insertion order.
func (r *SQLRepository) List(ctx context.Context, parentID int64, search string) ([]*models.Group, error) {
	q := r.sb.Select(columns...).From(table).Where(sq.Eq{"deleted": false})
	if parentID >= 0 {
		q = q.Where(sq.Eq{"group_id": parentID})
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(sq.Or{
			sq.Expr("LOWER(title) LIKE ?", like),
			sq.Expr("LOWER(note) LIKE ?", like),
		})
	}
	return r.selectGroups(ctx, q.OrderBy("id"))
}

// Get returns common.ErrNotFound for missing or tombstoned rows.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Group, error) {
	return r.getOne(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"id": id, "deleted": false}))
}

// Persist inserts g when its id is not assigned yet and upserts it otherwise.
// The id stored in the database is returned.
func (r *SQLRepository) Persist(ctx context.Context, g *models.Group) (int64, error) {
	if g.TimestampCreation == 0 {
		g.TimestampCreation = time.Now().Unix()
	}
	values := []any{g.ServerID, g.UserID, g.GroupID, g.ServerGroupID,
		g.Title, g.Icon, g.Note, g.IsHidden, g.Synchronized, g.Deleted, g.TimestampCreation}

	var q sq.InsertBuilder
	if models.IsNew(g.ID) {
		q = r.sb.Insert(table).Columns(columns[1:]...).Values(values...).Suffix("RETURNING id")
	} else {
		q = r.sb.Insert(table).Columns(columns...).Values(append([]any{g.ID}, values...)...).
			Suffix(dbx.UpsertSuffix("id", columns[1:]))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build group persist: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to persist group: %w", err)
	}
	return id, nil
}

// Delete tombstones a group already known to the server, otherwise removes it.
// Unknown ids are ignored.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update(table).
		Set("deleted", true).
		Set("synchronized", false).
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"server_id": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group tombstone: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to tombstone group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	return r.Purge(ctx, id)
}

func (r *SQLRepository) DeleteByParentID(ctx context.Context, parentID int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"group_id": parentID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete groups of parent %d: %w", parentID, err)
	}
	return nil
}

func (r *SQLRepository) CountByParentID(ctx context.Context, parentID int64) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").From(table).
		Where(sq.Eq{"group_id": parentID, "deleted": false}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build group count: %w", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return n, nil
}

// ListUnsynchronized returns every dirty row, tombstones included.
func (r *SQLRepository) ListUnsynchronized(ctx context.Context) ([]*models.Group, error) {
	return r.selectGroups(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"synchronized": false}).OrderBy("id"))
}

func (r *SQLRepository) GetByServerID(ctx context.Context, serverID int64) (*models.Group, error) {
	if serverID <= 0 {
		return nil, common.ErrNotFound
	}
	return r.getOne(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"server_id": serverID}))
}

// MarkSynchronized stores the server identity of g and clears its dirty flag.
func (r *SQLRepository) MarkSynchronized(ctx context.Context, g *models.Group) error {
	query, args, err := r.sb.Update(table).
		Set("server_id", g.ServerID).
		Set("server_group_id", g.ServerGroupID).
		Set("synchronized", true).
		Where(sq.Eq{"id": g.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group sync mark: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark group %d synchronized: %w", g.ID, err)
	}
	return nil
}

// Purge removes the row physically.
func (r *SQLRepository) Purge(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group purge: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to purge group %d: %w", id, err)
	}
	return nil
}
