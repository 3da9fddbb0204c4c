package fields

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

const table = "pocket_fields"

var columns = []string{
	"id", "server_id", "user_id", "group_id", "server_group_id", "group_field_id", "server_group_field_id",
	"title", "value", "is_hidden", "synchronized", "deleted", "timestamp_creation",
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

func scan(s dbx.Scanner) (*models.Field, error) {
	f := &models.Field{}
	err := s.Scan(&f.ID, &f.ServerID, &f.UserID, &f.GroupID, &f.ServerGroupID, &f.GroupFieldID, &f.ServerGroupFieldID,
		&f.Title, &f.Value, &f.IsHidden, &f.Synchronized, &f.Deleted, &f.TimestampCreation)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *SQLRepository) selectFields(ctx context.Context, q sq.SelectBuilder) ([]*models.Field, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build fields query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select fields: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Field, 0)
	for rows.Next() {
		f, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field row: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate field rows: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) getOne(ctx context.Context, q sq.SelectBuilder) (*models.Field, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build field query: %w", err)
	}
	f, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	return f, nil
}

// List returns live fields of the group parentID matching search
// (case-insensitive) on the title, or on the value when the field is not
// hidden. Rows come back in insertion order.
func (r *SQLRepository) List(ctx context.Context, parentID int64, search string) ([]*models.Field, error) {
	q := r.sb.Select(columns...).From(table).Where(sq.Eq{"deleted": false})
	if parentID >= 0 {
		q = q.Where(sq.Eq{"group_id": parentID})
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(sq.Or{
			sq.Expr("LOWER(title) LIKE ?", like),
			sq.And{sq.Eq{"is_hidden": false}, sq.Expr("LOWER(value) LIKE ?", like)},
		})
	}
	return r.selectFields(ctx, q.OrderBy("id"))
}

// Get returns common.ErrNotFound for missing or tombstoned rows.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Field, error) {
	return r.getOne(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"id": id, "deleted": false}))
}

// Persist inserts f when its id is not assigned yet and upserts it otherwise.
// The id stored in the database is returned.
func (r *SQLRepository) Persist(ctx context.Context, f *models.Field) (int64, error) {
	if f.TimestampCreation == 0 {
		f.TimestampCreation = time.Now().Unix()
	}
	values := []any{f.ServerID, f.UserID, f.GroupID, f.ServerGroupID, f.GroupFieldID, f.ServerGroupFieldID,
		f.Title, f.Value, f.IsHidden, f.Synchronized, f.Deleted, f.TimestampCreation}

	var q sq.InsertBuilder
	if models.IsNew(f.ID) {
		q = r.sb.Insert(table).Columns(columns[1:]...).Values(values...).Suffix("RETURNING id")
	} else {
		q = r.sb.Insert(table).Columns(columns...).Values(append([]any{f.ID}, values...)...).
			Suffix(dbx.UpsertSuffix("id", columns[1:]))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build field persist: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to persist field: %w", err)
	}
	return id, nil
}

// Delete tombstones a field already known to the server, otherwise removes it.
// Unknown ids are ignored.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update(table).
		Set("deleted", true).
		Set("synchronized", false).
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"server_id": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build field tombstone: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to tombstone field: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	return r.Purge(ctx, id)
}

func (r *SQLRepository) DeleteByParentID(ctx context.Context, parentID int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"group_id": parentID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build field delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete fields of group %d: %w", parentID, err)
	}
	return nil
}

func (r *SQLRepository) CountByParentID(ctx context.Context, parentID int64) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").From(table).
		Where(sq.Eq{"group_id": parentID, "deleted": false}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build field count: %w", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count fields: %w", err)
	}
	return n, nil
}

// ListUnsynchronized returns every dirty row, tombstones included.
func (r *SQLRepository) ListUnsynchronized(ctx context.Context) ([]*models.Field, error) {
	return r.selectFields(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"synchronized": false}).OrderBy("id"))
}

func (r *SQLRepository) GetByServerID(ctx context.Context, serverID int64) (*models.Field, error) {
	if serverID <= 0 {
		return nil, common.ErrNotFound
	}
	return r.getOne(ctx, r.sb.Select(columns...).From(table).Where(sq.Eq{"server_id": serverID}))
}

// MarkSynchronized stores the server identity of f and clears its dirty flag.
func (r *SQLRepository) MarkSynchronized(ctx context.Context, f *models.Field) error {
	query, args, err := r.sb.Update(table).
		Set("server_id", f.ServerID).
		Set("server_group_id", f.ServerGroupID).
		Set("server_group_field_id", f.ServerGroupFieldID).
		Set("synchronized", true).
		Where(sq.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build field sync mark: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark field %d synchronized: %w", f.ID, err)
	}
	return nil
}

// Purge removes the row physically.
func (r *SQLRepository) Purge(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build field purge: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to purge field %d: %w", id, err)
	}
	return nil
}

// ListByGroupFieldID returns the live fields of one group field.
func (r *SQLRepository) ListByGroupFieldID(ctx context.Context, groupFieldID int64) ([]*models.Field, error) {
	return r.selectFields(ctx, r.sb.Select(columns...).From(table).
		Where(sq.Eq{"group_field_id": groupFieldID, "deleted": false}).OrderBy("id"))
}

// DeleteByGroupFieldID removes the fields of one group field physically.
func (r *SQLRepository) DeleteByGroupFieldID(ctx context.Context, groupFieldID int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"group_field_id": groupFieldID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build field delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete fields of group field %d: %w", groupFieldID, err)
	}
	return nil
}
