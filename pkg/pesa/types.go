package pesa

// TransactionType is the STK push transaction kind.
type TransactionType string

// Transaction types.
const (
	TransactionTypePayBill TransactionType = "CustomerPayBillOnline"
	TransactionTypeTill    TransactionType = "CustomerBuyGoodsOnline"
)

// B2CCommandID is the disbursement command.
type B2CCommandID string

// B2C commands.
const (
	B2CSalaryPayment    B2CCommandID = "SalaryPayment"
	B2CBusinessPayment  B2CCommandID = "BusinessPayment"
	B2CPromotionPayment B2CCommandID = "PromotionPayment"
)

// B2BCommandID is the business transfer command.
type B2BCommandID string

// B2B commands.
const (
	B2BBusinessPayBill  B2BCommandID = "BusinessPayBill"
	B2BBusinessBuyGoods B2BCommandID = "BusinessBuyGoods"
)

// QRTransactionCode is the transaction a dynamic QR code initiates.
type QRTransactionCode string

// QR transaction codes.
const (
	QRBuyGoods       QRTransactionCode = "BG"
	QRWithdrawAgent  QRTransactionCode = "WA"
	QRPayBill        QRTransactionCode = "PB"
	QRSendMoney      QRTransactionCode = "SM"
	QRSendToBusiness QRTransactionCode = "SB"
)

// ResponseType is what the gateway does when the validation URL is unreachable.
type ResponseType string

// Response types.
const (
	ResponseTypeCompleted ResponseType = "Completed"
	ResponseTypeCancelled ResponseType = "Cancelled"
)
