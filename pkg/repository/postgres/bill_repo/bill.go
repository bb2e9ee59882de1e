package billrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estatehub/internal/structs"
	"estatehub/pkg/db"
	"estatehub/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
	}

	Repo interface {
		Create(ctx context.Context, req structs.CreateBill) (structs.Bill, error)
		GetByTransaction(ctx context.Context, txnRef, transactionNo string) (structs.Bill, error)
		ExistsByTxnRef(ctx context.Context, txnRef string) (bool, error)
		GetByID(ctx context.Context, id string) (structs.Bill, error)
		GetList(ctx context.Context, req structs.GetListBillRequest) (structs.GetListBillResponse, error)
	}

	repo struct {
		logger logger.Logger
		db     db.Querier
	}
)

func New(p Params) Repo {
	return &repo{
		logger: p.Logger,
		db:     p.DB,
	}
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

const billColumns = `
	id,
	account_id,
	amount,
	order_info,
	bank_code,
	transaction_no,
	txn_ref,
	pay_date,
	status,
	deleted,
	created_at`

func scanBill(row pgx.Row) (structs.Bill, error) {
	var resp structs.Bill
	err := row.Scan(
		&resp.ID,
		&resp.AccountID,
		&resp.Amount,
		&resp.OrderInfo,
		&resp.BankCode,
		&resp.TransactionNo,
		&resp.TxnRef,
		&resp.PayDate,
		&resp.Status,
		&resp.Deleted,
		&resp.CreatedAt,
	)
	return resp, err
}

// Create inserts a bill. A bill with the same (txn_ref, transaction_no) is
// reported as structs.ErrUniqueViolation and left untouched. A row rejected
// by a column constraint is reported as structs.ErrNoRowsAffected.
func (r repo) Create(ctx context.Context, req structs.CreateBill) (structs.Bill, error) {
	query := `
		INSERT INTO payment_bills (
			id,
			account_id,
			amount,
			order_info,
			bank_code,
			transaction_no,
			txn_ref,
			pay_date,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT ON CONSTRAINT payment_bills_txn_unique DO NOTHING
		RETURNING` + billColumns

	resp, err := scanBill(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		req.AccountID,
		req.Amount,
		req.OrderInfo,
		req.BankCode,
		req.TransactionNo,
		req.TxnRef,
		req.PayDate,
		req.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Bill{}, structs.ErrUniqueViolation
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return structs.Bill{}, structs.ErrUniqueViolation
			case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
				r.logger.Warn(ctx, "bill rejected by constraint", zap.String("constraint", pgErr.ConstraintName), zap.String("txnRef", req.TxnRef))
				return structs.Bill{}, structs.ErrNoRowsAffected
			}
		}
		r.logger.Error(ctx, "failed to insert bill", zap.Error(err), zap.String("txnRef", req.TxnRef))
		return structs.Bill{}, fmt.Errorf("insert bill: %w", err)
	}

	return resp, nil
}

// GetByTransaction includes soft-deleted bills: the unique constraint still
// covers them, so a conflicting insert must be able to find its owner.
func (r repo) GetByTransaction(ctx context.Context, txnRef, transactionNo string) (structs.Bill, error) {
	query := `SELECT` + billColumns + `
		FROM payment_bills
		WHERE txn_ref = $1 AND transaction_no = $2
		LIMIT 1`

	resp, err := scanBill(r.db.QueryRow(ctx, query, txnRef, transactionNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Bill{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "failed to get bill by transaction", zap.Error(err))
		return structs.Bill{}, err
	}
	return resp, nil
}

func (r repo) ExistsByTxnRef(ctx context.Context, txnRef string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payment_bills WHERE txn_ref = $1 AND NOT deleted)`,
		txnRef,
	).Scan(&exists)
	if err != nil {
		r.logger.Error(ctx, "failed to check bill existence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (r repo) GetByID(ctx context.Context, id string) (structs.Bill, error) {
	if _, err := uuid.Parse(id); err != nil {
		return structs.Bill{}, structs.ErrNotFound
	}

	query := `SELECT` + billColumns + `
		FROM payment_bills
		WHERE id = $1 AND NOT deleted`

	resp, err := scanBill(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Bill{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "failed to get bill", zap.Error(err))
		return structs.Bill{}, err
	}
	return resp, nil
}

func (r repo) GetList(ctx context.Context, req structs.GetListBillRequest) (structs.GetListBillResponse, error) {
	var (
		resp  = structs.GetListBillResponse{Bills: []structs.Bill{}}
		where = []string{"NOT deleted"}
		args  []interface{}
	)

	if req.AccountID != "" {
		args = append(args, req.AccountID)
		where = append(where, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	filter := " WHERE " + strings.Join(where, " AND ")

	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM payment_bills"+filter, args...).Scan(&resp.Count); err != nil {
		r.logger.Error(ctx, "failed to count bills", zap.Error(err))
		return resp, err
	}

	limit := req.Limit
	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := `SELECT` + billColumns + ` FROM payment_bills` + filter +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error(ctx, "failed to list bills", zap.Error(err))
		return resp, err
	}
	defer rows.Close()

	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			r.logger.Error(ctx, "failed to scan bill", zap.Error(err))
			return resp, err
		}
		resp.Bills = append(resp.Bills, bill)
	}
	if err := rows.Err(); err != nil {
		return resp, err
	}

	return resp, nil
}
