package bill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"estatehub/internal/structs"
	"estatehub/pkg/cache"
	"estatehub/pkg/config"
	"estatehub/pkg/filemanager"
	"estatehub/pkg/logger"
	"estatehub/pkg/notifier"
	billrepo "estatehub/pkg/repository/postgres/bill_repo"
	"estatehub/pkg/utils"
	"estatehub/pkg/vnpay"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

const (
	receiptsDir = "receipts"
	cachePrefix = "bill."
)

type (
	Params struct {
		fx.In
		Logger   logger.Logger
		Config   config.IConfig
		Merchant vnpay.Config
		BillRepo billrepo.Repo
		Files    filemanager.File
		Notifier notifier.Notifier
		Cache    cache.ICache
	}

	Service interface {
		// Record stores one bill for verified callback params. created is
		// false when the transaction was already recorded.
		Record(ctx context.Context, accountID string, params vnpay.Params) (bill structs.Bill, created bool, err error)
		IsRecorded(ctx context.Context, txnRef string) (bool, error)
		GetList(ctx context.Context, req structs.GetListBillRequest) (structs.GetListBillResponse, error)
		GetByID(ctx context.Context, id string) (structs.Bill, error)
	}

	service struct {
		logger       logger.Logger
		billRepo     billrepo.Repo
		files        filemanager.File
		notifier     notifier.Notifier
		cache        cache.ICache
		exchangeRate float64
		location     *time.Location
	}
)

func New(p Params) Service {
	return &service{
		logger:       p.Logger,
		billRepo:     p.BillRepo,
		files:        p.Files,
		notifier:     p.Notifier,
		cache:        p.Cache,
		exchangeRate: p.Config.GetFloat64("vnpay.exchange_rate"),
		location:     p.Merchant.Location,
	}
}

func (s *service) Record(ctx context.Context, accountID string, params vnpay.Params) (structs.Bill, bool, error) {
	req, err := s.buildBill(accountID, params)
	if err != nil {
		return structs.Bill{}, false, err
	}

	bill, err := s.billRepo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			existing, err := s.billRepo.GetByTransaction(ctx, req.TxnRef, req.TransactionNo)
			if err != nil {
				s.logger.Error(ctx, "->billRepo.GetByTransaction", zap.Error(err))
				return structs.Bill{}, false, err
			}
			s.logger.Info(ctx, "duplicate callback ignored", zap.String("txnRef", req.TxnRef), zap.String("transactionNo", req.TransactionNo))
			return existing, false, nil
		}
		s.logger.Error(ctx, "->billRepo.Create", zap.Error(err))
		return structs.Bill{}, false, err
	}
	s.logger.Info(ctx, "bill recorded",
		zap.String("billID", bill.ID),
		zap.String("accountID", bill.AccountID),
		zap.String("status", bill.Status),
	)

	if bill.Status == structs.BillStatusSucceed {
		s.archiveReceipt(ctx, bill)
		s.notify(ctx, bill)
	}

	return bill, true, nil
}

func (s *service) buildBill(accountID string, params vnpay.Params) (structs.CreateBill, error) {
	txnRef := params.Get(vnpay.ParamTxnRef)
	if txnRef == "" {
		return structs.CreateBill{}, fmt.Errorf("%w: missing %s", vnpay.ErrMalformedPayload, vnpay.ParamTxnRef)
	}

	minor, err := vnpay.ParseAmount(params.Get(vnpay.ParamAmount))
	if err != nil {
		return structs.CreateBill{}, fmt.Errorf("%w: %v", vnpay.ErrMalformedPayload, err)
	}
	amount, err := vnpay.ConvertAmount(minor, s.exchangeRate)
	if err != nil {
		return structs.CreateBill{}, err
	}

	var payDate *time.Time
	if raw := params.Get(vnpay.ParamPayDate); raw != "" {
		t, err := vnpay.ParseTimestamp(raw, s.location)
		if err != nil {
			return structs.CreateBill{}, fmt.Errorf("%w: %v", vnpay.ErrMalformedPayload, err)
		}
		payDate = &t
	}

	return structs.CreateBill{
		AccountID:     accountID,
		Amount:        amount,
		OrderInfo:     params.Get(vnpay.ParamOrderInfo),
		BankCode:      params.Get(vnpay.ParamBankCode),
		TransactionNo: params.Get(vnpay.ParamTransactionNo),
		TxnRef:        txnRef,
		PayDate:       payDate,
		Status:        string(vnpay.MapStatus(params.Get(vnpay.ParamResponseCode))),
	}, nil
}

func (s *service) archiveReceipt(ctx context.Context, bill structs.Bill) {
	body, err := json.Marshal(bill)
	if err != nil {
		s.logger.Warn(ctx, "receipt marshal failed", zap.Error(err))
		return
	}
	dir := receiptsDir + "/" + bill.AccountID
	if err := s.files.Upload(ctx, bytes.NewReader(body), dir, bill.ID+".json", "application/json"); err != nil {
		s.logger.Warn(ctx, "receipt upload failed", zap.Error(err), zap.String("billID", bill.ID))
	}
}

func (s *service) notify(ctx context.Context, bill structs.Bill) {
	text := fmt.Sprintf(
		"<b>Deposit succeeded</b>\nAccount: %s\nAmount: %s\nBank: %s\nVNPay transaction: %s",
		html.EscapeString(bill.AccountID),
		utils.FCurrency(bill.Amount),
		html.EscapeString(bill.BankCode),
		html.EscapeString(bill.TransactionNo),
	)
	if err := s.notifier.Send(ctx, text); err != nil {
		s.logger.Warn(ctx, "deposit notification failed", zap.Error(err), zap.String("billID", bill.ID))
	}
}

func (s *service) IsRecorded(ctx context.Context, txnRef string) (bool, error) {
	exists, err := s.billRepo.ExistsByTxnRef(ctx, txnRef)
	if err != nil {
		s.logger.Error(ctx, "->billRepo.ExistsByTxnRef", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (s *service) GetList(ctx context.Context, req structs.GetListBillRequest) (structs.GetListBillResponse, error) {
	resp, err := s.billRepo.GetList(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->billRepo.GetList", zap.Error(err))
		return structs.GetListBillResponse{}, err
	}
	return resp, nil
}

// GetByID serves recorded bills from the in-process cache; bills never change
// after they are written.
func (s *service) GetByID(ctx context.Context, id string) (structs.Bill, error) {
	var cached structs.Bill
	if err := s.cache.GetObj(cachePrefix+id, &cached); err == nil {
		return cached, nil
	}

	resp, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Bill{}, err
		}
		s.logger.Error(ctx, " err on s.billRepo.GetByID", zap.Error(err))
		return structs.Bill{}, err
	}

	if err := s.cache.SaveObj(cachePrefix+id, resp); err != nil {
		s.logger.Warn(ctx, "->cache.SaveObj", zap.Error(err))
	}
	return resp, nil
}
