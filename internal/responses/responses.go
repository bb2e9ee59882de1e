package responses

import (
	"net/http"

	"estatehub/internal/structs"
)

const (
	SuccessCode     = http.StatusOK
	BadRequestCode  = http.StatusBadRequest
	NotFoundCode    = http.StatusNotFound
	InternalErrCode = http.StatusInternalServerError
)

var (
	Success = structs.Response{Code: SuccessCode, Message: "Success"}

	BadRequest  = structs.Response{Code: BadRequestCode, Message: "Bad request"}
	NotFound    = structs.Response{Code: NotFoundCode, Message: "Not found"}
	InternalErr = structs.Response{Code: InternalErrCode, Message: "Internal server error"}

	TransactionSucceeded = structs.Response{Code: SuccessCode, Message: "Transaction succeeded"}
	TransactionFailed    = structs.Response{Code: BadRequestCode, Message: "Transaction failed"}
	InvalidSignature     = structs.Response{Code: BadRequestCode, Message: "Invalid signature"}

	BillCreated         = structs.Response{Code: SuccessCode, Message: "Bill created successfully"}
	BillAlreadyRecorded = structs.Response{Code: SuccessCode, Message: "Bill already recorded"}
	BillFailed          = structs.Response{Code: BadRequestCode, Message: "Failed to create bill"}
)
