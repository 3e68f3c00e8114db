package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"uniaid/internal/model"
)

const userColumns = `id, name, email, password_hash, role, wallet_balance, verification_status, verification_documents, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user model.User
		docs []byte
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.WalletBalance, &user.VerificationStatus, &docs, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		user.VerificationDocuments = &model.VerificationDocuments{}
		if err := json.Unmarshal(docs, user.VerificationDocuments); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func encodeDocs(docs *model.VerificationDocuments) (any, error) {
	if docs == nil {
		return nil, nil
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *pgTx) CreateUser(u *model.User) error {
	docs, err := encodeDocs(u.VerificationDocuments)
	if err != nil {
		return err
	}
	_, err = r.tx.ExecContext(r.ctx, `INSERT INTO users(`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.WalletBalance, u.VerificationStatus, docs, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *pgTx) UpdateUser(u *model.User) error {
	docs, err := encodeDocs(u.VerificationDocuments)
	if err != nil {
		return err
	}
	res, err := r.tx.ExecContext(r.ctx, `UPDATE users
		SET name = $2, email = $3, password_hash = $4, wallet_balance = $5,
			verification_status = $6, verification_documents = $7::jsonb
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.WalletBalance, u.VerificationStatus, docs)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *pgTx) GetUserByID(id string) (*model.User, error) {
	user, err := scanUser(r.tx.QueryRowContext(r.ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *pgTx) GetUserByEmail(email string) (*model.User, error) {
	user, err := scanUser(r.tx.QueryRowContext(r.ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *pgTx) ListUsers() ([]model.User, error) {
	rows, err := r.tx.QueryContext(r.ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
