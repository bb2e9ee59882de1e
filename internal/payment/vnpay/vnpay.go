package vnpay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estatehub/internal/bill"
	"estatehub/internal/structs"
	"estatehub/pkg/config"
	"estatehub/pkg/logger"
	callbacklogrepo "estatehub/pkg/repository/mongo/callbacklog_repo"
	pendingrepo "estatehub/pkg/repository/redis/pending_repo"
	"estatehub/pkg/utils"
	vnp "estatehub/pkg/vnpay"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(NewMerchantConfig, New)

const (
	qrSize = 320

	kindReturn     = "return"
	kindIPN        = "ipn"
	kindCreateBill = "create-bill"
)

type (
	Params struct {
		fx.In
		Logger      logger.Logger
		Merchant    vnp.Config
		Bills       bill.Service
		PendingRepo pendingrepo.Repo
		CallbackLog callbacklogrepo.Repo
	}

	Service interface {
		CreatePaymentURL(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) (structs.CreatePaymentURLResponse, error)
		CreatePaymentQR(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) ([]byte, error)
		VerifyReturn(ctx context.Context, query vnp.Params) (structs.ReturnResult, error)
		CreateBill(ctx context.Context, req structs.CreateBillRequest) (structs.Bill, bool, error)
		HandleIPN(ctx context.Context, query vnp.Params) structs.IPNResponse
	}

	service struct {
		logger      logger.Logger
		signer      *vnp.Signer
		verifier    *vnp.Verifier
		location    *time.Location
		bills       bill.Service
		pendingRepo pendingrepo.Repo
		callbackLog callbacklogrepo.Repo
		now         func() time.Time
	}
)

// NewMerchantConfig reads the vnpay block once. The result is shared by the
// signer, the verifier and the bill recorder.
func NewMerchantConfig(cfg config.IConfig) vnp.Config {
	return vnp.Config{
		TmnCode:    cfg.GetString("vnpay.tmn_code"),
		HashSecret: cfg.GetString("vnpay.hash_secret"),
		PaymentURL: cfg.GetString("vnpay.url"),
		ReturnURL:  cfg.GetString("vnpay.return_url"),
		Version:    cfg.GetString("vnpay.version"),
		CurrCode:   cfg.GetString("vnpay.currency"),
		OrderType:  cfg.GetString("vnpay.order_type"),
		Locale:     cfg.GetString("vnpay.locale"),
		Location:   vnp.LoadLocation(cfg.GetString("vnpay.timezone")),
	}
}

func New(p Params) Service {
	if err := p.Merchant.Validate(); err != nil {
		p.Logger.Warn(context.Background(), "vnpay merchant is not configured, deposits will fail")
	}
	return &service{
		logger:      p.Logger,
		signer:      vnp.NewSigner(p.Merchant),
		verifier:    vnp.NewVerifier(p.Merchant),
		location:    p.Merchant.Location,
		bills:       p.Bills,
		pendingRepo: p.PendingRepo,
		callbackLog: p.CallbackLog,
		now:         time.Now,
	}
}

func (s *service) CreatePaymentURL(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) (structs.CreatePaymentURLResponse, error) {
	if req.Amount <= 0 || req.Amount > vnp.MaxAmount {
		return structs.CreatePaymentURLResponse{}, structs.ErrInvalidAmount
	}
	if req.AccountID == "" {
		s.logger.Warn(ctx, "payment created without account", zap.Int64("amount", req.Amount))
	}

	now := s.now()
	if s.location != nil {
		now = now.In(s.location)
	}
	txnRef := vnp.NewTxnRef()

	paymentURL, err := s.signer.PaymentURL(vnp.PaymentRequest{
		Amount:    req.Amount,
		BankCode:  req.BankCode,
		Locale:    req.Language,
		ClientIP:  clientIP,
		TxnRef:    txnRef,
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Error(ctx, "->signer.PaymentURL", zap.Error(err))
		return structs.CreatePaymentURLResponse{}, err
	}

	err = s.pendingRepo.Save(ctx, structs.PendingPayment{
		TxnRef:    txnRef,
		AccountID: req.AccountID,
		Amount:    req.Amount,
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Error(ctx, "->pendingRepo.Save", zap.Error(err))
		return structs.CreatePaymentURLResponse{}, err
	}

	s.logger.Info(ctx, "payment url created",
		zap.String("txnRef", txnRef),
		zap.String("accountID", req.AccountID),
		zap.Int64("amount", req.Amount),
	)

	return structs.CreatePaymentURLResponse{URL: paymentURL, TxnRef: txnRef}, nil
}

func (s *service) CreatePaymentQR(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) ([]byte, error) {
	resp, err := s.CreatePaymentURL(ctx, req, clientIP)
	if err != nil {
		return nil, err
	}
	png, err := utils.QRCodePNG(resp.URL, qrSize)
	if err != nil {
		s.logger.Error(ctx, "->utils.QRCodePNG", zap.Error(err))
		return nil, err
	}
	return png, nil
}

func (s *service) VerifyReturn(ctx context.Context, query vnp.Params) (structs.ReturnResult, error) {
	result := structs.ReturnResult{
		TxnRef:        query.Get(vnp.ParamTxnRef),
		TransactionNo: query.Get(vnp.ParamTransactionNo),
		ResponseCode:  query.Get(vnp.ParamResponseCode),
	}

	if err := s.verify(ctx, query); err != nil {
		s.audit(ctx, kindReturn, query, false, "invalid signature")
		return result, err
	}

	result.Succeeded = result.ResponseCode == vnp.ResponseSuccess
	if result.Succeeded {
		s.audit(ctx, kindReturn, query, true, "succeeded")
	} else {
		s.audit(ctx, kindReturn, query, true, "failed")
	}
	return result, nil
}

func (s *service) CreateBill(ctx context.Context, req structs.CreateBillRequest) (structs.Bill, bool, error) {
	params, err := vnp.ParseCallback(req.Info)
	if err != nil {
		s.logger.Warn(ctx, "malformed bill info", zap.Error(err))
		return structs.Bill{}, false, err
	}

	if err := s.verify(ctx, params); err != nil {
		s.audit(ctx, kindCreateBill, params, false, "invalid signature")
		return structs.Bill{}, false, err
	}

	record, created, err := s.bills.Record(ctx, req.AccountID, params)
	if err != nil {
		s.audit(ctx, kindCreateBill, params, true, "error")
		return structs.Bill{}, false, err
	}

	if created {
		s.audit(ctx, kindCreateBill, params, true, "recorded")
		s.dropPending(ctx, record.TxnRef)
	} else {
		s.audit(ctx, kindCreateBill, params, true, "duplicate")
	}
	return record, created, nil
}

func (s *service) HandleIPN(ctx context.Context, query vnp.Params) structs.IPNResponse {
	if err := s.verify(ctx, query); err != nil {
		s.audit(ctx, kindIPN, query, false, structs.IPNInvalidChecksum)
		return structs.IPNResponse{RspCode: structs.IPNInvalidChecksum, Message: "Invalid Checksum"}
	}

	resp := s.confirm(ctx, query)
	s.audit(ctx, kindIPN, query, true, resp.RspCode)
	return resp
}

func (s *service) confirm(ctx context.Context, query vnp.Params) structs.IPNResponse {
	txnRef := query.Get(vnp.ParamTxnRef)

	pending, err := s.pendingRepo.Get(ctx, txnRef)
	if err != nil {
		if !errors.Is(err, structs.ErrNotFound) {
			s.logger.Error(ctx, "->pendingRepo.Get", zap.Error(err))
			return structs.IPNResponse{RspCode: structs.IPNUnknownError, Message: "Unknown error"}
		}
		recorded, err := s.bills.IsRecorded(ctx, txnRef)
		if err != nil {
			return structs.IPNResponse{RspCode: structs.IPNUnknownError, Message: "Unknown error"}
		}
		if recorded {
			return structs.IPNResponse{RspCode: structs.IPNAlreadyConfirmed, Message: "Order already confirmed"}
		}
		return structs.IPNResponse{RspCode: structs.IPNOrderNotFound, Message: "Order not found"}
	}

	// compared in major units so a large pending amount cannot overflow
	minor, err := vnp.ParseAmount(query.Get(vnp.ParamAmount))
	if err != nil || minor%100 != 0 || minor/100 != pending.Amount {
		s.logger.Warn(ctx, "ipn amount mismatch",
			zap.String("txnRef", txnRef),
			zap.String("amount", query.Get(vnp.ParamAmount)),
			zap.Int64("expected", pending.Amount),
		)
		return structs.IPNResponse{RspCode: structs.IPNInvalidAmount, Message: "Invalid amount"}
	}
	if pending.AccountID == "" {
		s.logger.Warn(ctx, "ipn bill recorded without account", zap.String("txnRef", txnRef))
	}

	_, created, err := s.bills.Record(ctx, pending.AccountID, query)
	if err != nil {
		s.logger.Error(ctx, "->bills.Record", zap.Error(err))
		return structs.IPNResponse{RspCode: structs.IPNUnknownError, Message: "Unknown error"}
	}
	if !created {
		return structs.IPNResponse{RspCode: structs.IPNAlreadyConfirmed, Message: "Order already confirmed"}
	}

	s.dropPending(ctx, txnRef)
	return structs.IPNResponse{RspCode: structs.IPNConfirmSuccess, Message: "Confirm Success"}
}

// verify maps every authentication failure to structs.ErrInvalidSignature.
func (s *service) verify(ctx context.Context, params vnp.Params) error {
	err := s.verifier.Verify(params)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, vnp.ErrMisconfigured):
		s.logger.Error(ctx, "->verifier.Verify", zap.Error(err))
		return err
	default:
		s.logger.Warn(ctx, "callback signature rejected",
			zap.String("txnRef", params.Get(vnp.ParamTxnRef)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", structs.ErrInvalidSignature, err)
	}
}

func (s *service) dropPending(ctx context.Context, txnRef string) {
	if err := s.pendingRepo.Delete(ctx, txnRef); err != nil {
		s.logger.Warn(ctx, "->pendingRepo.Delete", zap.Error(err), zap.String("txnRef", txnRef))
	}
}

func (s *service) audit(ctx context.Context, kind string, params vnp.Params, verified bool, result string) {
	err := s.callbackLog.Write(ctx, structs.CallbackLog{
		Kind:      kind,
		RequestID: logger.RequestID(ctx),
		TxnRef:    params.Get(vnp.ParamTxnRef),
		Params:    params.Clone(),
		Verified:  verified,
		Result:    result,
		Time:      s.now(),
	})
	if err != nil {
		s.logger.Warn(ctx, "->callbackLog.Write", zap.Error(err))
	}
}
