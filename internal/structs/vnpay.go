package structs

import "time"

type CreatePaymentURLRequest struct {
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	BankCode  string `json:"bankCode"`
	Language  string `json:"language"`
	AccountID string `json:"accountId"`
}

type CreatePaymentURLResponse struct {
	URL    string `json:"url"`
	TxnRef string `json:"txnRef"`
}

type CreateBillRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Info      string `json:"info" binding:"required"`
}

// PendingPayment is kept in redis between URL creation and the provider callback.
type PendingPayment struct {
	TxnRef    string    `json:"txnRef"`
	AccountID string    `json:"accountId"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReturnResult struct {
	TxnRef        string `json:"txnRef"`
	TransactionNo string `json:"transactionNo"`
	ResponseCode  string `json:"responseCode"`
	Succeeded     bool   `json:"succeeded"`
}

// IPNResponse is the acknowledgement body VNPay expects from the IPN URL.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

const (
	IPNConfirmSuccess   = "00"
	IPNOrderNotFound    = "01"
	IPNAlreadyConfirmed = "02"
	IPNInvalidAmount    = "04"
	IPNInvalidChecksum  = "97"
	IPNUnknownError     = "99"
)

// CallbackLog is one audited provider callback.
type CallbackLog struct {
	Kind      string            `json:"kind" bson:"kind"`
	RequestID string            `json:"requestId" bson:"request_id"`
	TxnRef    string            `json:"txnRef" bson:"txn_ref"`
	Params    map[string]string `json:"params" bson:"params"`
	Verified  bool              `json:"verified" bson:"verified"`
	Result    string            `json:"result" bson:"result"`
	Time      time.Time         `json:"time" bson:"time"`
}
