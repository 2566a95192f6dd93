package postgres

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

const selectUser = `
	SELECT u.id, u.username, u.password, u.email,
	       coalesce(array_agg(r.name) FILTER (WHERE r.name IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON u.id = ur.user_id
	LEFT JOIN roles r ON ur.role_id = r.id
`

func (r *UserPostgres) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgres) UserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, selectUser+`WHERE u.id = $1 GROUP BY u.id`, id))
}

func (r *UserPostgres) UserByName(ctx context.Context, name string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, selectUser+`WHERE lower(u.username) = lower($1) GROUP BY u.id`, name))
}

func (r *UserPostgres) Users(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, selectUser+`GROUP BY u.id ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserPostgres) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	queryUser := `INSERT INTO users (id, username, password, email) VALUES ($1, $2, $3, $4)`
	if _, err = tx.Exec(ctx, queryUser, user.ID, user.Username, user.Password, user.Email); err != nil {
		if isUniqueViolation(err) {
			return nil, app_errors.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	queryRole := `SELECT id FROM roles WHERE name = $1`
	insertUserRole := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`
	for _, roleName := range user.Roles {
		var roleID int
		if err = tx.QueryRow(ctx, queryRole, roleName).Scan(&roleID); err != nil {
			return nil, fmt.Errorf("lookup role %q: %w", roleName, err)
		}
		if _, err = tx.Exec(ctx, insertUserRole, user.ID, roleID); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &user, nil
}
