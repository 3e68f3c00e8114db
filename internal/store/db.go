package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"uniaid/internal/logging"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrFailCommTrans = errors.New("failed to commit transaction")

type Database struct {
	DBDSN string
	DB    *sql.DB
}

func NewDatabase(ctx context.Context, dsn string) (*Database, error) {
	ms := &Database{DBDSN: dsn}
	var err error
	if ms.DB, err = sql.Open("pgx", ms.DBDSN); err != nil {
		logging.Logg.Error("Couldn't connect to the database with an error", "error", err)
		return nil, err
	}
	if err = ms.DB.PingContext(ctx); err != nil {
		logging.Logg.Error("Database is unreachable", "error", err)
		ms.DB.Close()
		return nil, err
	}

	if err = ms.initDBTables(ctx); err != nil {
		logging.Logg.Error("Failed to initialize DB", "error", err)
		ms.DB.Close()
		return nil, err
	}
	logging.Logg.Info("Database connection was created")
	return ms, nil
}

func (ms *Database) Close() error {
	return ms.DB.Close()
}

func (ms *Database) initDBTables(ctx context.Context) error {
	var errs []error
	stmts := []string{
		`create table if not exists users (
			seq BIGSERIAL,
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			email VARCHAR(320) NOT NULL UNIQUE,
			password_hash VARCHAR(60) NOT NULL,
			role VARCHAR(20) NOT NULL,
			wallet_balance NUMERIC(14, 2) NOT NULL DEFAULT 0.00,
			verification_status VARCHAR(20) NOT NULL DEFAULT 'NONE',
			verification_documents JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`create table if not exists campaigns (
			seq BIGSERIAL,
			id VARCHAR(64) PRIMARY KEY,
			fundraiser_id VARCHAR(64) NOT NULL REFERENCES users(id),
			fundraiser_name VARCHAR(200) NOT NULL,
			title VARCHAR(300) NOT NULL,
			description TEXT NOT NULL,
			goal_amount NUMERIC(14, 2) NOT NULL CHECK (goal_amount > 0),
			raised_amount NUMERIC(14, 2) NOT NULL DEFAULT 0.00,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			category VARCHAR(30) NOT NULL,
			beneficiary VARCHAR(300) NOT NULL,
			deadline TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			image TEXT NOT NULL
		);`,

		`create table if not exists donations (
			seq BIGSERIAL,
			id VARCHAR(64) PRIMARY KEY,
			donor_id VARCHAR(64) NOT NULL,
			donor_name VARCHAR(200) NOT NULL,
			campaign_id VARCHAR(64) NOT NULL REFERENCES campaigns(id),
			campaign_title VARCHAR(300) NOT NULL,
			amount NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
			donated_at TIMESTAMPTZ NOT NULL,
			donor_verified BOOLEAN NOT NULL DEFAULT false
		);`,

		`create table if not exists transactions (
			seq BIGSERIAL,
			id VARCHAR(80) PRIMARY KEY,
			transactions_type VARCHAR(30) NOT NULL,
			amount NUMERIC(14, 2) NOT NULL,
			sender_id VARCHAR(64) NOT NULL,
			receiver_id VARCHAR(64) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`create table if not exists session (
			slot SMALLINT PRIMARY KEY DEFAULT 1 CHECK (slot = 1),
			user_doc JSONB NOT NULL
		);`,
	}

	for _, s := range stmts {
		_, err := ms.DB.ExecContext(ctx, s)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InTx runs fn inside a serializable SQL transaction and commits when fn
// returns nil.
func (ms *Database) InTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	tx, err := ms.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(&pgTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		logging.Logg.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("%w: %w", ErrFailCommTrans, err)
	}
	return nil
}

type pgTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
