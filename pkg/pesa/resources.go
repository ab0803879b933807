package pesa

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/pesakit/pesakit-go/internal/constants"
)

// Timestamp formats t in the gateway's yyyyMMddHHmmss layout.
func Timestamp(t time.Time) string {
	return t.Format(constants.TimestampLayout)
}

// Password derives the STK password: base64(shortCode + passKey + timestamp).
func Password(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

// StkPushRequest initiates a push payment prompt on the customer's phone.
type StkPushRequest struct {
	BusinessShortCode string          `json:"BusinessShortCode" yaml:"BusinessShortCode" validate:"required,numeric"`
	Password          string          `json:"Password"          yaml:"Password"          validate:"required"`
	Timestamp         string          `json:"Timestamp"         yaml:"Timestamp"         validate:"required,len=14,numeric"`
	TransactionType   TransactionType `json:"TransactionType"   yaml:"TransactionType"   validate:"required,oneof=CustomerPayBillOnline CustomerBuyGoodsOnline"`
	Amount            int             `json:"Amount"            yaml:"Amount"            validate:"gt=0"`
	PartyA            string          `json:"PartyA"            yaml:"PartyA"            validate:"required,numeric"`
	PartyB            string          `json:"PartyB"            yaml:"PartyB"            validate:"required,numeric"`
	PhoneNumber       string          `json:"PhoneNumber"       yaml:"PhoneNumber"       validate:"required,numeric"`
	CallBackURL       string          `json:"CallBackURL"       yaml:"CallBackURL"       validate:"required,url"`
	AccountReference  string          `json:"AccountReference"  yaml:"AccountReference"  validate:"required,max=12"`
	TransactionDesc   string          `json:"TransactionDesc"   yaml:"TransactionDesc"   validate:"required,max=13"`
}

// StkPushParams are the caller supplied fields of an STK push.
type StkPushParams struct {
	BusinessShortCode string
	PassKey           string
	TransactionType   TransactionType
	Amount            int
	PartyA            string
	PartyB            string
	PhoneNumber       string
	CallBackURL       string
	AccountReference  string
	TransactionDesc   string
}

// NewStkPushRequest builds a request, deriving Timestamp and Password from at.
func NewStkPushRequest(params StkPushParams, at time.Time) *StkPushRequest {
	timestamp := Timestamp(at)

	return &StkPushRequest{
		BusinessShortCode: params.BusinessShortCode,
		Password:          Password(params.BusinessShortCode, params.PassKey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   params.TransactionType,
		Amount:            params.Amount,
		PartyA:            params.PartyA,
		PartyB:            params.PartyB,
		PhoneNumber:       params.PhoneNumber,
		CallBackURL:       params.CallBackURL,
		AccountReference:  params.AccountReference,
		TransactionDesc:   params.TransactionDesc,
	}
}

// StkPushResponse acknowledges an STK push.
type StkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"   yaml:"MerchantRequestID"   validate:"required"`
	CheckoutRequestID   string `json:"CheckoutRequestID"   yaml:"CheckoutRequestID"   validate:"required"`
	ResponseCode        string `json:"ResponseCode"        yaml:"ResponseCode"        validate:"required"`
	ResponseDescription string `json:"ResponseDescription" yaml:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"     yaml:"CustomerMessage"`
}

// StkPushQueryRequest checks the state of an STK push.
type StkPushQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode" yaml:"BusinessShortCode" validate:"required,numeric"`
	Password          string `json:"Password"          yaml:"Password"          validate:"required"`
	Timestamp         string `json:"Timestamp"         yaml:"Timestamp"         validate:"required,len=14,numeric"`
	CheckoutRequestID string `json:"CheckoutRequestID" yaml:"CheckoutRequestID" validate:"required"`
}

// NewStkPushQueryRequest builds a query, deriving Timestamp and Password from at.
func NewStkPushQueryRequest(shortCode, passKey, checkoutRequestID string, at time.Time) *StkPushQueryRequest {
	timestamp := Timestamp(at)

	return &StkPushQueryRequest{
		BusinessShortCode: shortCode,
		Password:          Password(shortCode, passKey, timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}
}

// StkPushQueryResponse reports the state of an STK push.
type StkPushQueryResponse struct {
	ResponseCode        string `json:"ResponseCode"        yaml:"ResponseCode"        validate:"required"`
	ResponseDescription string `json:"ResponseDescription" yaml:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"   yaml:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"   yaml:"CheckoutRequestID"   validate:"required"`
	ResultCode          string `json:"ResultCode"          yaml:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"          yaml:"ResultDesc"`
}

// DynamicQRRequest generates a payment QR code.
type DynamicQRRequest struct {
	MerchantName string            `json:"MerchantName" yaml:"MerchantName" validate:"required"`
	RefNo        string            `json:"RefNo"        yaml:"RefNo"        validate:"required"`
	Amount       int               `json:"Amount"       yaml:"Amount"       validate:"gt=0"`
	TrxCode      QRTransactionCode `json:"TrxCode"      yaml:"TrxCode"      validate:"required,oneof=BG WA PB SM SB"`
	CPI          string            `json:"CPI"          yaml:"CPI"          validate:"required"`
	Size         string            `json:"Size"         yaml:"Size"         validate:"omitempty,numeric"`
}

// DynamicQRResponse carries the generated QR image.
type DynamicQRResponse struct {
	ResponseCode        string `json:"ResponseCode"        yaml:"ResponseCode"        validate:"required"`
	RequestID           string `json:"RequestID"           yaml:"RequestID"`
	ResponseDescription string `json:"ResponseDescription" yaml:"ResponseDescription"`
	QRCode              string `json:"QRCode"              yaml:"QRCode"              validate:"required"`
}

// C2BRegisterURLRequest registers confirmation and validation callbacks.
type C2BRegisterURLRequest struct {
	ShortCode       string       `json:"ShortCode"       yaml:"ShortCode"       validate:"required,numeric"`
	ResponseType    ResponseType `json:"ResponseType"    yaml:"ResponseType"    validate:"required,oneof=Completed Cancelled"`
	ConfirmationURL string       `json:"ConfirmationURL" yaml:"ConfirmationURL" validate:"required,url"`
	ValidationURL   string       `json:"ValidationURL"   yaml:"ValidationURL"   validate:"required,url"`
}

// C2BRegisterURLResponse acknowledges a URL registration. The field spelling
// follows the gateway.
type C2BRegisterURLResponse struct {
	OriginatorCoversationID string `json:"OriginatorCoversationID" yaml:"OriginatorCoversationID"`
	ResponseCode            string `json:"ResponseCode"            yaml:"ResponseCode"            validate:"required"`
	ResponseDescription     string `json:"ResponseDescription"     yaml:"ResponseDescription"`
}

// B2CRequest disburses funds from a short code to a customer.
type B2CRequest struct {
	OriginatorConversationID string       `json:"OriginatorConversationID" yaml:"OriginatorConversationID"`
	InitiatorName            string       `json:"InitiatorName"            yaml:"InitiatorName"            validate:"required"`
	SecurityCredential       string       `json:"SecurityCredential"       yaml:"SecurityCredential"       validate:"required"`
	CommandID                B2CCommandID `json:"CommandID"                yaml:"CommandID"                validate:"required,oneof=SalaryPayment BusinessPayment PromotionPayment"`
	Amount                   int          `json:"Amount"                   yaml:"Amount"                   validate:"gt=0"`
	PartyA                   string       `json:"PartyA"                   yaml:"PartyA"                   validate:"required,numeric"`
	PartyB                   string       `json:"PartyB"                   yaml:"PartyB"                   validate:"required,numeric"`
	Remarks                  string       `json:"Remarks"                  yaml:"Remarks"                  validate:"required,max=100"`
	QueueTimeOutURL          string       `json:"QueueTimeOutURL"          yaml:"QueueTimeOutURL"          validate:"required,url"`
	ResultURL                string       `json:"ResultURL"                yaml:"ResultURL"                validate:"required,url"`
	Occassion                string       `json:"Occassion"                yaml:"Occassion"                validate:"max=100"`
}

// EnsureOriginatorConversationID assigns a random ID when none is set.
func (r *B2CRequest) EnsureOriginatorConversationID() {
	if r.OriginatorConversationID == "" {
		r.OriginatorConversationID = uuid.NewString()
	}
}

// B2CResponse acknowledges a disbursement.
type B2CResponse struct {
	ConversationID           string `json:"ConversationID"           yaml:"ConversationID"           validate:"required"`
	OriginatorConversationID string `json:"OriginatorConversationID" yaml:"OriginatorConversationID" validate:"required"`
	ResponseCode             string `json:"ResponseCode"             yaml:"ResponseCode"             validate:"required"`
	ResponseDescription      string `json:"ResponseDescription"      yaml:"ResponseDescription"`
}

// TransactionStatusRequest queries the status of a transaction.
type TransactionStatusRequest struct {
	Initiator                string `json:"Initiator"                yaml:"Initiator"                validate:"required"`
	SecurityCredential       string `json:"SecurityCredential"       yaml:"SecurityCredential"       validate:"required"`
	CommandID                string `json:"CommandID"                yaml:"CommandID"                validate:"eq=TransactionStatusQuery"`
	TransactionID            string `json:"TransactionID"            yaml:"TransactionID"            validate:"required_without=OriginatorConversationID"`
	OriginatorConversationID string `json:"OriginatorConversationID" yaml:"OriginatorConversationID"`
	PartyA                   string `json:"PartyA"                   yaml:"PartyA"                   validate:"required,numeric"`
	IdentifierType           string `json:"IdentifierType"           yaml:"IdentifierType"           validate:"required,numeric"`
	ResultURL                string `json:"ResultURL"                yaml:"ResultURL"                validate:"required,url"`
	QueueTimeOutURL          string `json:"QueueTimeOutURL"          yaml:"QueueTimeOutURL"          validate:"required,url"`
	Remarks                  string `json:"Remarks"                  yaml:"Remarks"                  validate:"required,max=100"`
	Occasion                 string `json:"Occasion"                 yaml:"Occasion"                 validate:"max=100"`
}

// ApplyDefaults fills the fixed command and default identifier type.
func (r *TransactionStatusRequest) ApplyDefaults() {
	r.CommandID = constants.CommandTransactionStatus
	if r.IdentifierType == "" {
		r.IdentifierType = constants.DefaultIdentifierType
	}
}

// TransactionStatusResponse acknowledges a status query; the result arrives on ResultURL.
type TransactionStatusResponse struct {
	OriginatorConversationID string `json:"OriginatorConversationID" yaml:"OriginatorConversationID" validate:"required"`
	ConversationID           string `json:"ConversationID"           yaml:"ConversationID"           validate:"required"`
	ResponseCode             string `json:"ResponseCode"             yaml:"ResponseCode"             validate:"required"`
	ResponseDescription      string `json:"ResponseDescription"      yaml:"ResponseDescription"`
}

// AccountBalanceRequest queries a short code balance.
type AccountBalanceRequest struct {
	Initiator          string `json:"Initiator"          yaml:"Initiator"          validate:"required"`
	SecurityCredential string `json:"SecurityCredential" yaml:"SecurityCredential" validate:"required"`
	CommandID          string `json:"CommandID"          yaml:"CommandID"          validate:"eq=AccountBalance"`
	PartyA             string `json:"PartyA"             yaml:"PartyA"             validate:"required,numeric"`
	IdentifierType     string `json:"IdentifierType"     yaml:"IdentifierType"     validate:"required,numeric"`
	Remarks            string `json:"Remarks"            yaml:"Remarks"            validate:"required,max=100"`
	QueueTimeOutURL    string `json:"QueueTimeOutURL"    yaml:"QueueTimeOutURL"    validate:"required,url"`
	ResultURL          string `json:"ResultURL"          yaml:"ResultURL"          validate:"required,url"`
}

// ApplyDefaults fills the fixed command and default identifier type.
func (r *AccountBalanceRequest) ApplyDefaults() {
	r.CommandID = constants.CommandAccountBalance
	if r.IdentifierType == "" {
		r.IdentifierType = constants.DefaultIdentifierType
	}
}

// AccountBalanceResponse acknowledges a balance query.
type AccountBalanceResponse struct {
	OriginatorConversationID string `json:"OriginatorConversationID" yaml:"OriginatorConversationID" validate:"required"`
	ConversationID           string `json:"ConversationID"           yaml:"ConversationID"           validate:"required"`
	ResponseCode             string `json:"ResponseCode"             yaml:"ResponseCode"             validate:"required"`
	ResponseDescription      string `json:"ResponseDescription"      yaml:"ResponseDescription"`
}

// ReversalRequest reverses a completed transaction.
type ReversalRequest struct {
	Initiator              string `json:"Initiator"              yaml:"Initiator"              validate:"required"`
	SecurityCredential     string `json:"SecurityCredential"     yaml:"SecurityCredential"     validate:"required"`
	CommandID              string `json:"CommandID"              yaml:"CommandID"              validate:"eq=TransactionReversal"`
	TransactionID          string `json:"TransactionID"          yaml:"TransactionID"          validate:"required"`
	Amount                 int    `json:"Amount"                 yaml:"Amount"                 validate:"gt=0"`
	ReceiverParty          string `json:"ReceiverParty"          yaml:"ReceiverParty"          validate:"required,numeric"`
	RecieverIdentifierType string `json:"RecieverIdentifierType" yaml:"RecieverIdentifierType" validate:"required,numeric"`
	ResultURL              string `json:"ResultURL"              yaml:"ResultURL"              validate:"required,url"`
	QueueTimeOutURL        string `json:"QueueTimeOutURL"        yaml:"QueueTimeOutURL"        validate:"required,url"`
	Remarks                string `json:"Remarks"                yaml:"Remarks"                validate:"required,max=100"`
	Occasion               string `json:"Occasion"               yaml:"Occasion"               validate:"max=100"`
}

// ApplyDefaults fills the fixed command and default receiver identifier type.
func (r *ReversalRequest) ApplyDefaults() {
	r.CommandID = constants.CommandTransactionReversal
	if r.RecieverIdentifierType == "" {
		r.RecieverIdentifierType = constants.ReversalIdentifierType
	}
}

// ReversalResponse acknowledges a reversal.
type ReversalResponse struct {
	OriginatorConversationID string `json:"OriginatorConversationID" yaml:"OriginatorConversationID" validate:"required"`
	ConversationID           string `json:"ConversationID"           yaml:"ConversationID"           validate:"required"`
	ResponseCode             string `json:"ResponseCode"             yaml:"ResponseCode"             validate:"required"`
	ResponseDescription      string `json:"ResponseDescription"      yaml:"ResponseDescription"`
}

// B2BRequest transfers funds between short codes.
type B2BRequest struct {
	Initiator              string       `json:"Initiator"              yaml:"Initiator"              validate:"required"`
	SecurityCredential     string       `json:"SecurityCredential"     yaml:"SecurityCredential"     validate:"required"`
	CommandID              B2BCommandID `json:"CommandID"              yaml:"CommandID"              validate:"required,oneof=BusinessPayBill BusinessBuyGoods"`
	SenderIdentifierType   string       `json:"SenderIdentifierType"   yaml:"SenderIdentifierType"   validate:"required,numeric"`
	RecieverIdentifierType string       `json:"RecieverIdentifierType" yaml:"RecieverIdentifierType" validate:"required,numeric"`
	Amount                 int          `json:"Amount"                 yaml:"Amount"                 validate:"gt=0"`
	PartyA                 string       `json:"PartyA"                 yaml:"PartyA"                 validate:"required,numeric"`
	PartyB                 string       `json:"PartyB"                 yaml:"PartyB"                 validate:"required,numeric"`
	AccountReference       string       `json:"AccountReference"       yaml:"AccountReference"       validate:"required"`
	Requester              string       `json:"Requester"              yaml:"Requester"`
	Remarks                string       `json:"Remarks"                yaml:"Remarks"                validate:"required,max=100"`
	QueueTimeOutURL        string       `json:"QueueTimeOutURL"        yaml:"QueueTimeOutURL"        validate:"required,url"`
	ResultURL              string       `json:"ResultURL"              yaml:"ResultURL"              validate:"required,url"`
}

// ApplyDefaults fills default sender and receiver identifier types.
func (r *B2BRequest) ApplyDefaults() {
	if r.SenderIdentifierType == "" {
		r.SenderIdentifierType = constants.DefaultIdentifierType
	}

	if r.RecieverIdentifierType == "" {
		r.RecieverIdentifierType = constants.DefaultIdentifierType
	}
}

// B2BResponse acknowledges a business transfer.
type B2BResponse struct {
	OriginatorConversationID string `json:"OriginatorConversationID" yaml:"OriginatorConversationID" validate:"required"`
	ConversationID           string `json:"ConversationID"           yaml:"ConversationID"           validate:"required"`
	ResponseCode             string `json:"ResponseCode"             yaml:"ResponseCode"             validate:"required"`
	ResponseDescription      string `json:"ResponseDescription"      yaml:"ResponseDescription"`
}
