package structs

import "time"

const (
	BillStatusSucceed = "succeed"
	BillStatusFailed  = "failed"
)

// Bill is one recorded provider transaction, stored in payment_bills.
type Bill struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"accountId"`
	Amount        float64    `json:"amount"`
	OrderInfo     string     `json:"orderInfo"`
	BankCode      string     `json:"bankCode"`
	TransactionNo string     `json:"transactionNo"`
	TxnRef        string     `json:"txnRef"`
	PayDate       *time.Time `json:"payDate"`
	Status        string     `json:"status"`
	Deleted       bool       `json:"deleted"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type CreateBill struct {
	AccountID     string
	Amount        float64
	OrderInfo     string
	BankCode      string
	TransactionNo string
	TxnRef        string
	PayDate       *time.Time
	Status        string
}

type GetListBillRequest struct {
	AccountID string
	Status    string
	Limit     int64
	Offset    int64
}

type GetListBillResponse struct {
	Count int64  `json:"count"`
	Bills []Bill `json:"bills"`
}
