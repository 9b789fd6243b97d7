package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saldofy/saldoauth"
)

const userColumns = `id, email, email_verified, name, default_tenant_type,
	password_hash, verification_code, reset_token, reset_token_expiry,
	created_at, updated_at`

func (a *Adapter) CreateUser(ctx context.Context, user *saldoauth.User) error {
	query := `INSERT INTO public.users
		(id, email, email_verified, name, default_tenant_type, password_hash, verification_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.EmailVerified, user.Name,
		user.DefaultTenantType, user.PasswordHash, user.VerificationCode,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetUserIdentity(ctx context.Context, id string) (*saldoauth.UserIdentity, error) {
	q := `SELECT id, email, name FROM public.users WHERE id = $1`

	ident := &saldoauth.UserIdentity{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&ident.ID, &ident.Email, &ident.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, saldoauth.ErrUserNotFound
		}
		return nil, err
	}
	return ident, nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*saldoauth.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users WHERE id = $1`
	return a.scanUser(a.pool.QueryRow(ctx, q, id))
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*saldoauth.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users WHERE email = $1`
	return a.scanUser(a.pool.QueryRow(ctx, q, email))
}

func (a *Adapter) GetUserByResetToken(ctx context.Context, token string) (*saldoauth.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users WHERE reset_token = $1`
	return a.scanUser(a.pool.QueryRow(ctx, q, token))
}

func (a *Adapter) UpdateUser(ctx context.Context, user *saldoauth.User) error {
	q := `UPDATE public.users SET
		email = $1, email_verified = $2, name = $3, default_tenant_type = $4,
		password_hash = $5, verification_code = $6, reset_token = $7,
		reset_token_expiry = $8, updated_at = now()
		WHERE id = $9 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q,
		user.Email, user.EmailVerified, user.Name, user.DefaultTenantType,
		user.PasswordHash, user.VerificationCode, user.ResetToken,
		user.ResetTokenExpiry, user.ID,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return saldoauth.ErrUserNotFound
		}
		return err
	}
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.users WHERE id = $1`, id)
	return err
}

func (a *Adapter) scanUser(row pgx.Row) (*saldoauth.User, error) {
	user := &saldoauth.User{}
	var tenantType string
	err := row.Scan(
		&user.ID, &user.Email, &user.EmailVerified, &user.Name, &tenantType,
		&user.PasswordHash, &user.VerificationCode, &user.ResetToken,
		&user.ResetTokenExpiry, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, saldoauth.ErrUserNotFound
		}
		return nil, err
	}
	user.DefaultTenantType = saldoauth.TenantType(tenantType)
	return user, nil
}
