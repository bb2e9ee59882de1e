package bill

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"estatehub/internal/structs"
	"estatehub/pkg/cache"
	"estatehub/pkg/logger"
	"estatehub/pkg/vnpay"
)

type MockBillRepo struct {
	CreateFunc           func(ctx context.Context, req structs.CreateBill) (structs.Bill, error)
	GetByTransactionFunc func(ctx context.Context, txnRef, transactionNo string) (structs.Bill, error)
	ExistsByTxnRefFunc   func(ctx context.Context, txnRef string) (bool, error)
	GetByIDFunc          func(ctx context.Context, id string) (structs.Bill, error)
	GetListFunc          func(ctx context.Context, req structs.GetListBillRequest) (structs.GetListBillResponse, error)
}

func (m *MockBillRepo) Create(ctx context.Context, req structs.CreateBill) (structs.Bill, error) {
	return m.CreateFunc(ctx, req)
}

func (m *MockBillRepo) GetByTransaction(ctx context.Context, txnRef, transactionNo string) (structs.Bill, error) {
	return m.GetByTransactionFunc(ctx, txnRef, transactionNo)
}

func (m *MockBillRepo) ExistsByTxnRef(ctx context.Context, txnRef string) (bool, error) {
	return m.ExistsByTxnRefFunc(ctx, txnRef)
}

func (m *MockBillRepo) GetByID(ctx context.Context, id string) (structs.Bill, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockBillRepo) GetList(ctx context.Context, req structs.GetListBillRequest) (structs.GetListBillResponse, error) {
	return m.GetListFunc(ctx, req)
}

type uploadCall struct {
	dir, filename, contentType, body string
}

type MockFiles struct {
	calls []uploadCall
	err   error
}

func (m *MockFiles) Upload(_ context.Context, body io.Reader, dir, filename, contentType string) error {
	b, _ := io.ReadAll(body)
	m.calls = append(m.calls, uploadCall{dir: dir, filename: filename, contentType: contentType, body: string(b)})
	return m.err
}

type MockNotifier struct {
	texts []string
	err   error
}

func (m *MockNotifier) Send(_ context.Context, text string) error {
	m.texts = append(m.texts, text)
	return m.err
}

func newTestService(repo *MockBillRepo, files *MockFiles, n *MockNotifier) *service {
	return &service{
		logger:       logger.NewNop(),
		billRepo:     repo,
		files:        files,
		notifier:     n,
		cache:        cache.New(),
		exchangeRate: 25000,
		location:     vnpay.LoadLocation(vnpay.DefaultTimezone),
	}
}

func callbackParams(code string) vnpay.Params {
	return vnpay.Params{
		vnpay.ParamAmount:        "2500000000",
		vnpay.ParamBankCode:      "NCB",
		vnpay.ParamOrderInfo:     "Thanh toan cho ma GD:abc",
		vnpay.ParamTransactionNo: "14123456",
		vnpay.ParamTxnRef:        "abc",
		vnpay.ParamPayDate:       "20240305150910",
		vnpay.ParamResponseCode:  code,
	}
}

func TestRecordSucceededBill(t *testing.T) {
	var got structs.CreateBill
	repo := &MockBillRepo{
		CreateFunc: func(_ context.Context, req structs.CreateBill) (structs.Bill, error) {
			got = req
			return structs.Bill{
				ID:            "bill-1",
				AccountID:     req.AccountID,
				Amount:        req.Amount,
				BankCode:      req.BankCode,
				TransactionNo: req.TransactionNo,
				TxnRef:        req.TxnRef,
				Status:        req.Status,
			}, nil
		},
	}
	files := &MockFiles{}
	n := &MockNotifier{}
	svc := newTestService(repo, files, n)

	bill, created, err := svc.Record(context.Background(), "acc-1", callbackParams("00"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !created {
		t.Fatal("Record() created = false, want true")
	}
	if bill.ID != "bill-1" {
		t.Errorf("bill.ID = %q", bill.ID)
	}
	if got.Amount != 1000 {
		t.Errorf("amount = %v, want 1000", got.Amount)
	}
	if got.Status != structs.BillStatusSucceed {
		t.Errorf("status = %q, want %q", got.Status, structs.BillStatusSucceed)
	}
	if got.PayDate == nil || !got.PayDate.Equal(time.Date(2024, 3, 5, 8, 9, 10, 0, time.UTC)) {
		t.Errorf("payDate = %v", got.PayDate)
	}
	if got.AccountID != "acc-1" || got.TxnRef != "abc" || got.TransactionNo != "14123456" || got.BankCode != "NCB" {
		t.Errorf("unexpected bill fields: %+v", got)
	}

	if len(files.calls) != 1 {
		t.Fatalf("uploads = %d, want 1", len(files.calls))
	}
	if c := files.calls[0]; c.dir != "receipts/acc-1" || c.filename != "bill-1.json" || c.contentType != "application/json" {
		t.Errorf("unexpected upload: %+v", c)
	}
	if !strings.Contains(files.calls[0].body, `"transactionNo":"14123456"`) {
		t.Errorf("receipt body = %s", files.calls[0].body)
	}
	if len(n.texts) != 1 || !strings.Contains(n.texts[0], "1,000") {
		t.Errorf("notifications = %v", n.texts)
	}
}

func TestRecordFailedBillSkipsSideEffects(t *testing.T) {
	repo := &MockBillRepo{
		CreateFunc: func(_ context.Context, req structs.CreateBill) (structs.Bill, error) {
			return structs.Bill{ID: "bill-2", Status: req.Status}, nil
		},
	}
	files := &MockFiles{}
	n := &MockNotifier{}
	svc := newTestService(repo, files, n)

	bill, created, err := svc.Record(context.Background(), "acc-1", callbackParams("24"))
	if err != nil || !created {
		t.Fatalf("Record() = %v, %v", created, err)
	}
	if bill.Status != structs.BillStatusFailed {
		t.Errorf("status = %q, want failed", bill.Status)
	}
	if len(files.calls) != 0 || len(n.texts) != 0 {
		t.Errorf("side effects ran for failed bill: uploads=%d notifications=%d", len(files.calls), len(n.texts))
	}
}

func TestRecordDuplicateIsNoop(t *testing.T) {
	repo := &MockBillRepo{
		CreateFunc: func(context.Context, structs.CreateBill) (structs.Bill, error) {
			return structs.Bill{}, structs.ErrUniqueViolation
		},
		GetByTransactionFunc: func(_ context.Context, txnRef, transactionNo string) (structs.Bill, error) {
			if txnRef != "abc" || transactionNo != "14123456" {
				t.Errorf("GetByTransaction(%q, %q)", txnRef, transactionNo)
			}
			return structs.Bill{ID: "existing"}, nil
		},
	}
	files := &MockFiles{}
	n := &MockNotifier{}
	svc := newTestService(repo, files, n)

	bill, created, err := svc.Record(context.Background(), "acc-1", callbackParams("00"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if created {
		t.Error("Record() created = true for duplicate")
	}
	if bill.ID != "existing" {
		t.Errorf("bill.ID = %q, want existing", bill.ID)
	}
	if len(files.calls) != 0 || len(n.texts) != 0 {
		t.Error("side effects ran for duplicate")
	}
}

func TestRecordSideEffectFailuresDoNotFail(t *testing.T) {
	repo := &MockBillRepo{
		CreateFunc: func(_ context.Context, req structs.CreateBill) (structs.Bill, error) {
			return structs.Bill{ID: "bill-3", AccountID: req.AccountID, Status: req.Status}, nil
		},
	}
	svc := newTestService(repo, &MockFiles{err: errors.New("s3 down")}, &MockNotifier{err: errors.New("telegram down")})

	if _, created, err := svc.Record(context.Background(), "acc-1", callbackParams("00")); err != nil || !created {
		t.Fatalf("Record() = %v, %v", created, err)
	}
}

func TestRecordErrors(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name   string
		params func() vnpay.Params
		create func(context.Context, structs.CreateBill) (structs.Bill, error)
		want   error
	}{
		{
			name:   "missing txn ref",
			params: func() vnpay.Params { p := callbackParams("00"); delete(p, vnpay.ParamTxnRef); return p },
			want:   vnpay.ErrMalformedPayload,
		},
		{
			name:   "bad amount",
			params: func() vnpay.Params { p := callbackParams("00"); p[vnpay.ParamAmount] = "ten"; return p },
			want:   vnpay.ErrMalformedPayload,
		},
		{
			name:   "bad pay date",
			params: func() vnpay.Params { p := callbackParams("00"); p[vnpay.ParamPayDate] = "2024"; return p },
			want:   vnpay.ErrMalformedPayload,
		},
		{
			name:   "rejected by constraint",
			params: func() vnpay.Params { return callbackParams("00") },
			create: func(context.Context, structs.CreateBill) (structs.Bill, error) {
				return structs.Bill{}, structs.ErrNoRowsAffected
			},
			want:   structs.ErrNoRowsAffected,
		},
		{
			name:   "database failure",
			params: func() vnpay.Params { return callbackParams("00") },
			create: func(context.Context, structs.CreateBill) (structs.Bill, error) { return structs.Bill{}, dbErr },
			want:   dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockBillRepo{CreateFunc: tt.create}
			if repo.CreateFunc == nil {
				repo.CreateFunc = func(context.Context, structs.CreateBill) (structs.Bill, error) {
					t.Fatal("Create must not be called")
					return structs.Bill{}, nil
				}
			}
			svc := newTestService(repo, &MockFiles{}, &MockNotifier{})

			_, created, err := svc.Record(context.Background(), "acc-1", tt.params())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Record() error = %v, want %v", err, tt.want)
			}
			if created {
				t.Error("created = true on error")
			}
		})
	}
}

func TestRecordWithoutPayDate(t *testing.T) {
	repo := &MockBillRepo{
		CreateFunc: func(_ context.Context, req structs.CreateBill) (structs.Bill, error) {
			if req.PayDate != nil {
				t.Errorf("payDate = %v, want nil", req.PayDate)
			}
			return structs.Bill{ID: "bill-4", Status: req.Status}, nil
		},
	}
	p := callbackParams("11")
	delete(p, vnpay.ParamPayDate)

	if _, _, err := newTestService(repo, &MockFiles{}, &MockNotifier{}).Record(context.Background(), "acc-1", p); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
}

func TestGetByIDIsCached(t *testing.T) {
	calls := 0
	repo := &MockBillRepo{
		GetByIDFunc: func(_ context.Context, id string) (structs.Bill, error) {
			calls++
			return structs.Bill{ID: id, Status: structs.BillStatusSucceed}, nil
		},
	}
	svc := newTestService(repo, &MockFiles{}, &MockNotifier{})

	for i := 0; i < 3; i++ {
		b, err := svc.GetByID(context.Background(), "bill-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if b.ID != "bill-1" {
			t.Errorf("bill.ID = %q", b.ID)
		}
	}
	if calls != 1 {
		t.Errorf("repo calls = %d, want 1", calls)
	}
}

func TestGetByIDNotFoundIsNotCached(t *testing.T) {
	calls := 0
	repo := &MockBillRepo{
		GetByIDFunc: func(context.Context, string) (structs.Bill, error) {
			calls++
			return structs.Bill{}, structs.ErrNotFound
		},
	}
	svc := newTestService(repo, &MockFiles{}, &MockNotifier{})

	for i := 0; i < 2; i++ {
		if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, structs.ErrNotFound) {
			t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
		}
	}
	if calls != 2 {
		t.Errorf("repo calls = %d, want 2", calls)
	}
}
