package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/dbx"
	"github.com/rcornejom06/authcore/internal/server/models"
)

const (
	pgUniqueViolation     = "23505"
	pgInvalidTextEncoding = "22P02"
)

const accountColumns = `id, display_name, email, password_hash, external_id, age, active, created_at, updated_at`

var (
	selectByID          = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	selectByIDForUpdate = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	selectByEmail       = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	selectByExternalID  = `SELECT ` + accountColumns + ` FROM accounts WHERE external_id = $1`
	selectAll           = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`

	insertAccount = `INSERT INTO accounts (display_name, email, password_hash, external_id, age, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns

	updateAccount = `UPDATE accounts
		SET display_name = $2, email = $3, password_hash = $4, external_id = $5, age = $6, active = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	deleteAccount = `DELETE FROM accounts WHERE id = $1 RETURNING ` + accountColumns
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a          models.Account
		externalID sql.NullString
		age        sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.DisplayName, &a.Email, &a.PasswordHash, &externalID, &age, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if externalID.Valid {
		v := externalID.String
		a.ExternalID = &v
	}
	if age.Valid {
		v := int(age.Int64)
		a.Age = &v
	}
	return &a, nil
}

// mapError translates driver errors into the store error taxonomy.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, common.ErrConflict, pgErr.ConstraintName)
		case pgInvalidTextEncoding:
			// malformed UUID: nothing can match it
			return fmt.Errorf("%s: %w", op, common.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrStoreUnavailable, err)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func (r *PostgresRepository) findOne(ctx context.Context, db dbx.DBTX, op, query string, arg any) (*models.Account, error) {
	a, err := scanAccount(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, r.db, "find account by id", selectByID, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, r.db, "find account by email", selectByEmail, email)
}

func (r *PostgresRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Account, error) {
	return r.findOne(ctx, r.db, "find account by external id", selectByExternalID, externalID)
}

func (r *PostgresRepository) Create(ctx context.Context, d models.AccountDraft) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, insertAccount,
		d.DisplayName, d.Email, d.PasswordHash, nullString(d.ExternalID), nullInt(d.Age), d.Active)
	a, err := scanAccount(row)
	if err != nil {
		return nil, mapError("create account", err)
	}
	return a, nil
}

// Update locks the row, merges the patch and writes the full record back in
// one transaction. When the repository is already bound to a transaction the
// caller's transaction is used.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	var out *models.Account

	apply := func(ctx context.Context, tx dbx.DBTX) error {
		a, err := r.findOne(ctx, tx, "lock account", selectByIDForUpdate, id)
		if err != nil {
			return err
		}
		patch.Apply(a)

		err = tx.QueryRowContext(ctx, updateAccount,
			a.ID, a.DisplayName, a.Email, a.PasswordHash, nullString(a.ExternalID), nullInt(a.Age), a.Active,
		).Scan(&a.UpdatedAt)
		if err != nil {
			return mapError("update account", err)
		}
		out = a
		return nil
	}

	var err error
	if db, ok := r.db.(dbx.TxBeginner); ok {
		err = dbx.WithTx(ctx, db, nil, apply)
	} else {
		err = apply(ctx, r.db)
	}
	if err != nil {
		if common.Classify(err) == common.KindInternal {
			return nil, fmt.Errorf("update account: %w: %w", common.ErrStoreUnavailable, err)
		}
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, r.db, "delete account", deleteAccount, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, selectAll)
	if err != nil {
		return nil, mapError("list accounts", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapError("list accounts", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list accounts", err)
	}
	return out, nil
}
