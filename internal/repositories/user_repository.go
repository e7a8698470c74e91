package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/simlok-project/backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role *models.UserRole, limit, offset int) ([]*models.User, int, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, email, password_hash, name, role, vendor_name, is_active,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
    `, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.VendorName, u.IsActive)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	return r.scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE email=$1", email)
	return r.scanUser(row)
}

func (r *userRepo) List(ctx context.Context, role *models.UserRole, limit, offset int) ([]*models.User, int, error) {
	where := ""
	args := []interface{}{}
	if role != nil {
		where = " WHERE role=$1"
		args = append(args, *role)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := baseSelectUser() + where + " ORDER BY created_at DESC"
	if role != nil {
		query += " LIMIT $2 OFFSET $3"
	} else {
		query += " LIMIT $1 OFFSET $2"
	}
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        UPDATE users
        SET email=$1, password_hash=$2, name=$3, role=$4, vendor_name=$5,
            is_active=$6, updated_at=NOW()
        WHERE id=$7
    `, u.Email, u.PasswordHash, u.Name, u.Role, u.VendorName, u.IsActive, u.ID)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func baseSelectUser() string {
	return `
        SELECT
            id, email, password_hash, name, role, vendor_name, is_active,
            created_at, updated_at
        FROM users`
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.VendorName,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
