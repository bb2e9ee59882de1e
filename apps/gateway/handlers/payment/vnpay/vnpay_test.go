package vnpay

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estatehub/internal/structs"
	"estatehub/pkg/logger"
	vnp "estatehub/pkg/vnpay"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockVnpayService struct {
	CreatePaymentURLFunc func(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) (structs.CreatePaymentURLResponse, error)
	CreatePaymentQRFunc  func(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) ([]byte, error)
	VerifyReturnFunc     func(ctx context.Context, query vnp.Params) (structs.ReturnResult, error)
	CreateBillFunc       func(ctx context.Context, req structs.CreateBillRequest) (structs.Bill, bool, error)
	HandleIPNFunc        func(ctx context.Context, query vnp.Params) structs.IPNResponse
}

func (m *MockVnpayService) CreatePaymentURL(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) (structs.CreatePaymentURLResponse, error) {
	return m.CreatePaymentURLFunc(ctx, req, clientIP)
}

func (m *MockVnpayService) CreatePaymentQR(ctx context.Context, req structs.CreatePaymentURLRequest, clientIP string) ([]byte, error) {
	return m.CreatePaymentQRFunc(ctx, req, clientIP)
}

func (m *MockVnpayService) VerifyReturn(ctx context.Context, query vnp.Params) (structs.ReturnResult, error) {
	return m.VerifyReturnFunc(ctx, query)
}

func (m *MockVnpayService) CreateBill(ctx context.Context, req structs.CreateBillRequest) (structs.Bill, bool, error) {
	return m.CreateBillFunc(ctx, req)
}

func (m *MockVnpayService) HandleIPN(ctx context.Context, query vnp.Params) structs.IPNResponse {
	return m.HandleIPNFunc(ctx, query)
}

func setupRouter(svc *MockVnpayService) *gin.Engine {
	h := New(Params{Logger: logger.NewNop(), VnpayService: svc})
	r := gin.New()
	g := r.Group("/deposit/vnpay")
	g.POST("/create-payment-url", h.CreatePaymentURL)
	g.POST("/create-payment-qr", h.CreatePaymentQR)
	g.POST("/create-bill", h.CreateBill)
	g.GET("/vnpay-return", h.Return)
	g.GET("/vnpay-ipn", h.IPN)
	return r
}

func do(r *gin.Engine, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("http status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := jsoniter.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestCreatePaymentURL(t *testing.T) {
	var gotIP string
	var gotReq structs.CreatePaymentURLRequest
	svc := &MockVnpayService{
		CreatePaymentURLFunc: func(_ context.Context, req structs.CreatePaymentURLRequest, clientIP string) (structs.CreatePaymentURLResponse, error) {
			gotIP, gotReq = clientIP, req
			return structs.CreatePaymentURLResponse{URL: "https://pay.test/?a=1", TxnRef: "ref-1"}, nil
		},
	}
	r := setupRouter(svc)

	w := do(r, http.MethodPost, "/deposit/vnpay/create-payment-url",
		`{"amount":100000,"bankCode":"NCB","accountId":"acc-1"}`,
		map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.2"})
	body := decode(t, w)

	if body["code"] != float64(200) || body["url"] != "https://pay.test/?a=1" {
		t.Errorf("body = %v", body)
	}
	if gotIP != "198.51.100.4" {
		t.Errorf("client ip = %q", gotIP)
	}
	if gotReq.Amount != 100000 || gotReq.BankCode != "NCB" || gotReq.AccountID != "acc-1" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestCreatePaymentURLErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode float64
	}{
		{name: "missing amount", body: `{"bankCode":"NCB"}`, wantCode: 400},
		{name: "negative amount", body: `{"amount":-5}`, wantCode: 400},
		{name: "broken json", body: `{"amount":`, wantCode: 400},
		{name: "service invalid amount", body: `{"amount":1}`, err: structs.ErrInvalidAmount, wantCode: 400},
		{name: "misconfigured", body: `{"amount":1}`, err: vnp.ErrMisconfigured, wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockVnpayService{
				CreatePaymentURLFunc: func(context.Context, structs.CreatePaymentURLRequest, string) (structs.CreatePaymentURLResponse, error) {
					return structs.CreatePaymentURLResponse{}, tt.err
				},
			}
			body := decode(t, do(setupRouter(svc), http.MethodPost, "/deposit/vnpay/create-payment-url", tt.body, nil))
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", body["code"], tt.wantCode)
			}
			if _, ok := body["url"]; ok {
				t.Error("url present on failure")
			}
		})
	}
}

func TestCreatePaymentQR(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nrest")
	svc := &MockVnpayService{
		CreatePaymentQRFunc: func(context.Context, structs.CreatePaymentURLRequest, string) ([]byte, error) {
			return png, nil
		},
	}

	w := do(setupRouter(svc), http.MethodPost, "/deposit/vnpay/create-payment-qr", `{"amount":5000}`, nil)
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("content type = %q", got)
	}
	if !bytes.Equal(w.Body.Bytes(), png) {
		t.Error("unexpected body")
	}

	svc.CreatePaymentQRFunc = func(context.Context, structs.CreatePaymentURLRequest, string) ([]byte, error) {
		return nil, errors.New("boom")
	}
	body := decode(t, do(setupRouter(svc), http.MethodPost, "/deposit/vnpay/create-payment-qr", `{"amount":5000}`, nil))
	if body["code"] != float64(500) {
		t.Errorf("code = %v, want 500", body["code"])
	}
}

func TestCreateBill(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		created     bool
		err         error
		wantCode    float64
		wantMessage string
	}{
		{name: "created", body: `{"accountId":"acc-1","info":"vnp_TxnRef=1"}`, created: true, wantCode: 200, wantMessage: "Bill created successfully"},
		{name: "duplicate", body: `{"accountId":"acc-1","info":"vnp_TxnRef=1"}`, wantCode: 200, wantMessage: "Bill already recorded"},
		{name: "invalid signature", body: `{"accountId":"acc-1","info":"vnp_TxnRef=1"}`, err: structs.ErrInvalidSignature, wantCode: 400, wantMessage: "Invalid signature"},
		{name: "no rows", body: `{"accountId":"acc-1","info":"vnp_TxnRef=1"}`, err: structs.ErrNoRowsAffected, wantCode: 400, wantMessage: "Failed to create bill"},
		{name: "malformed info", body: `{"accountId":"acc-1","info":"garbage"}`, err: vnp.ErrMalformedPayload, wantCode: 500},
		{name: "missing info", body: `{"accountId":"acc-1"}`, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockVnpayService{
				CreateBillFunc: func(_ context.Context, req structs.CreateBillRequest) (structs.Bill, bool, error) {
					if tt.err != nil {
						return structs.Bill{}, false, tt.err
					}
					return structs.Bill{ID: "bill-1", AccountID: req.AccountID}, tt.created, nil
				},
			}
			body := decode(t, do(setupRouter(svc), http.MethodPost, "/deposit/vnpay/create-bill", tt.body, nil))
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", body["code"], tt.wantCode)
			}
			if tt.wantMessage != "" && body["message"] != tt.wantMessage {
				t.Errorf("message = %v, want %q", body["message"], tt.wantMessage)
			}
		})
	}
}

func TestReturn(t *testing.T) {
	tests := []struct {
		name        string
		result      structs.ReturnResult
		err         error
		wantCode    float64
		wantMessage string
	}{
		{name: "succeeded", result: structs.ReturnResult{Succeeded: true}, wantCode: 200, wantMessage: "Transaction succeeded"},
		{name: "failed", result: structs.ReturnResult{ResponseCode: "24"}, wantCode: 400, wantMessage: "Transaction failed"},
		{name: "invalid signature", err: structs.ErrInvalidSignature, wantCode: 400, wantMessage: "Invalid signature"},
		{name: "unexpected", err: vnp.ErrMisconfigured, wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got vnp.Params
			svc := &MockVnpayService{
				VerifyReturnFunc: func(_ context.Context, query vnp.Params) (structs.ReturnResult, error) {
					got = query
					return tt.result, tt.err
				},
			}
			body := decode(t, do(setupRouter(svc), http.MethodGet,
				"/deposit/vnpay/vnpay-return?vnp_TxnRef=ref-1&vnp_OrderInfo=a+b", "", nil))
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", body["code"], tt.wantCode)
			}
			if tt.wantMessage != "" && body["message"] != tt.wantMessage {
				t.Errorf("message = %v, want %q", body["message"], tt.wantMessage)
			}
			if got.Get(vnp.ParamTxnRef) != "ref-1" || got.Get(vnp.ParamOrderInfo) != "a b" {
				t.Errorf("query = %v", got)
			}
		})
	}
}

func TestIPN(t *testing.T) {
	svc := &MockVnpayService{
		HandleIPNFunc: func(_ context.Context, query vnp.Params) structs.IPNResponse {
			if query.Get(vnp.ParamTxnRef) != "ref-1" {
				return structs.IPNResponse{RspCode: structs.IPNOrderNotFound, Message: "Order not found"}
			}
			return structs.IPNResponse{RspCode: structs.IPNConfirmSuccess, Message: "Confirm Success"}
		},
	}

	body := decode(t, do(setupRouter(svc), http.MethodGet, "/deposit/vnpay/vnpay-ipn?vnp_TxnRef=ref-1", "", nil))
	if body["RspCode"] != "00" || body["Message"] != "Confirm Success" {
		t.Errorf("body = %v", body)
	}
}
