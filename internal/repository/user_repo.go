package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pairchat/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
// Los lookups devuelven pgx.ErrNoRows cuando el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUserName(ctx context.Context, userName string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, full_name, user_name, email, password_hash, gender, profile_pic, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.UserName,
		user.Email,
		user.PasswordHash,
		user.Gender,
		user.ProfilePic,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, full_name, user_name, email, password_hash, gender, profile_pic, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByUserName(ctx context.Context, userName string) (domain.User, error) {
	const query = `
		SELECT id, full_name, user_name, email, password_hash, gender, profile_pic, created_at
		FROM users
		WHERE user_name = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, userName))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, full_name, user_name, email, password_hash, gender, profile_pic, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgUserRepository) scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.UserName,
		&u.Email,
		&u.PasswordHash,
		&u.Gender,
		&u.ProfilePic,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
