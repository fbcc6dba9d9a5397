package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pantry-chef-api/internal/model"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	name string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
	// insertUser inserts a user unless the external id is already taken.
	insertUser string
	// schema is executed one statement at a time.
	schema []string
}

// SQLStore implements Store on top of database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

var _ Store = (*SQLStore)(nil)

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// rebind converts ? placeholders for dialects with numbered parameters.
func (s *SQLStore) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const inventoryColumns = `id, user_id, name, quantity, unit, category, created_at, updated_at`

func scanItem(row interface{ Scan(...interface{}) error }) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.Quantity, &item.Unit,
		&item.Category, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByOwner returns the user's items, newest first.
func (s *SQLStore) ListByOwner(ctx context.Context, userID string) ([]model.InventoryItem, error) {
	query := s.rebind(`SELECT ` + inventoryColumns + ` FROM inventory_items
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	items := []model.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	return items, nil
}

// Create inserts a new item.
func (s *SQLStore) Create(ctx context.Context, item *model.InventoryItem) error {
	query := s.rebind(`INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query, item.ID, item.UserID, item.Name, item.Quantity,
		item.Unit, item.Category, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

// GetByID returns one item.
func (s *SQLStore) GetByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	query := s.rebind(`SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = ?`)

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

// Update writes the mutable fields of an owned item.
func (s *SQLStore) Update(ctx context.Context, item *model.InventoryItem) error {
	query := s.rebind(`UPDATE inventory_items
		SET name = ?, quantity = ?, unit = ?, category = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`)

	result, err := s.db.ExecContext(ctx, query, item.Name, item.Quantity, item.Unit,
		item.Category, item.UpdatedAt, item.ID, item.UserID)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return expectAffected(result)
}

// Delete removes an owned item.
func (s *SQLStore) Delete(ctx context.Context, id, userID string) error {
	query := s.rebind(`DELETE FROM inventory_items WHERE id = ? AND user_id = ?`)

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return expectAffected(result)
}

func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByExternalID returns the user with the given external id.
func (s *SQLStore) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	query := s.rebind(`SELECT id, external_id, email, created_at, updated_at
		FROM users WHERE external_id = ?`)

	var u model.User
	err := s.db.QueryRowContext(ctx, query, externalID).
		Scan(&u.ID, &u.ExternalID, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetOrCreate relies on the unique index on external_id: a losing concurrent insert is
// ignored and the winner's row is read back.
func (s *SQLStore) GetOrCreate(ctx context.Context, candidate *model.User) (*model.User, error) {
	existing, err := s.GetByExternalID(ctx, candidate.ExternalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, s.rebind(s.dialect.insertUser), candidate.ID,
		candidate.ExternalID, candidate.Email, candidate.CreatedAt, candidate.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetByExternalID(ctx, candidate.ExternalID)
}

// Backend names the SQL dialect in use.
func (s *SQLStore) Backend() string {
	return s.dialect.name
}

// Ping verifies the connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetStats returns row counts and the last inventory change.
func (s *SQLStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{
		"backend": s.dialect.name,
	}

	var users, items int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inventory_items").Scan(&items); err != nil {
		return nil, err
	}
	stats["total_users"] = users
	stats["total_inventory_items"] = items

	dbStats := s.db.Stats()
	stats["open_connections"] = dbStats.OpenConnections
	stats["in_use"] = dbStats.InUse

	return stats, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
