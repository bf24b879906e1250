// Package postgres provides the PostgreSQL-backed Store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"roster/internal/user/models"
	id "roster/pkg/domain"
	"roster/pkg/platform/sentinel"
)

// Store persists user records in the users table. Records come back in
// insertion order (created_at, id) so list responses are stable.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed user store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = "id, email, first_name, last_name, birth_date, address, phone_number"

// Insert assigns a fresh ID and persists the record.
func (s *Store) Insert(ctx context.Context, user models.User) (models.User, error) {
	user.ID = id.UserID(uuid.New())
	query := `
		INSERT INTO users (id, email, first_name, last_name, birth_date, address, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID), user.Email, user.FirstName, user.LastName,
		user.BirthDate.Time(), nullable(user.Address), nullable(user.PhoneNumber),
	)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindByID returns the record or sentinel.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, userID id.UserID) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, sentinel.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// FindAll returns every record in insertion order.
func (s *Store) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// FindByBirthDateRange returns records with birth dates in [from, to]
// inclusive, in insertion order.
func (s *Store) FindByBirthDateRange(ctx context.Context, from, to models.Date) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE birth_date BETWEEN $1 AND $2
		 ORDER BY created_at, id`,
		from.Time(), to.Time(),
	)
	if err != nil {
		return nil, fmt.Errorf("query users by birth date range: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Replace overwrites an existing record, keyed by its ID.
func (s *Store) Replace(ctx context.Context, user models.User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, birth_date = $5,
		    address = $6, phone_number = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID), user.Email, user.FirstName, user.LastName,
		user.BirthDate.Time(), nullable(user.Address), nullable(user.PhoneNumber),
	)
	if err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// DeleteByID removes the record. Deleting an absent ID is a no-op.
func (s *Store) DeleteByID(ctx context.Context, userID id.UserID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		rawID       uuid.UUID
		user        models.User
		birthDate   sql.NullTime
		address     sql.NullString
		phoneNumber sql.NullString
	)
	if err := row.Scan(&rawID, &user.Email, &user.FirstName, &user.LastName,
		&birthDate, &address, &phoneNumber); err != nil {
		return models.User{}, err
	}
	user.ID = id.UserID(rawID)
	if birthDate.Valid {
		user.BirthDate = models.DateOf(birthDate.Time)
	}
	user.Address = address.String
	user.PhoneNumber = phoneNumber.String
	return user, nil
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// nullable maps empty optional strings to NULL so the table distinguishes
// "not provided" from empty text.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
