package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"uniaid/internal/model"
)

func (r *pgTx) Session() (*model.User, error) {
	var doc []byte
	err := r.tx.QueryRowContext(r.ctx, `SELECT user_doc FROM session WHERE slot = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal(doc, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgTx) SetSession(u *model.User) error {
	if u == nil || u.ID == "" {
		return fmt.Errorf("%w: empty session user", ErrUserNotFound)
	}
	doc, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = r.tx.ExecContext(r.ctx, `INSERT INTO session (slot, user_doc) VALUES (1, $1::jsonb)
		ON CONFLICT (slot) DO UPDATE SET user_doc = EXCLUDED.user_doc`, string(doc))
	return err
}

func (r *pgTx) ClearSession() error {
	_, err := r.tx.ExecContext(r.ctx, `DELETE FROM session WHERE slot = 1`)
	return err
}
