package client

import (
	"context"

	"github.com/pesakit/pesakit-go/internal/constants"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// StkPush implements pesa.PaymentClient.StkPush.
func (c *Client) StkPush(ctx context.Context, req *pesa.StkPushRequest) (*pesa.StkPushResponse, error) {
	return execute[pesa.StkPushRequest, pesa.StkPushResponse](ctx, c, pesa.OperationStkPush, req)
}

// StkPushQuery implements pesa.PaymentClient.StkPushQuery.
func (c *Client) StkPushQuery(ctx context.Context, req *pesa.StkPushQueryRequest) (*pesa.StkPushQueryResponse, error) {
	return execute[pesa.StkPushQueryRequest, pesa.StkPushQueryResponse](ctx, c, pesa.OperationStkPushQuery, req)
}

// GenerateQR implements pesa.PaymentClient.GenerateQR. An empty size
// defaults to 300 pixels.
func (c *Client) GenerateQR(ctx context.Context, req *pesa.DynamicQRRequest) (*pesa.DynamicQRResponse, error) {
	if req != nil && req.Size == "" {
		cp := *req
		cp.Size = constants.DefaultQRSize
		req = &cp
	}

	return execute[pesa.DynamicQRRequest, pesa.DynamicQRResponse](ctx, c, pesa.OperationDynamicQR, req)
}

// RegisterC2BURL implements pesa.PaymentClient.RegisterC2BURL.
func (c *Client) RegisterC2BURL(ctx context.Context, req *pesa.C2BRegisterURLRequest) (*pesa.C2BRegisterURLResponse, error) {
	return execute[pesa.C2BRegisterURLRequest, pesa.C2BRegisterURLResponse](ctx, c, pesa.OperationC2BRegisterURL, req)
}

// B2CPayment implements pesa.PaymentClient.B2CPayment. A missing
// OriginatorConversationID is generated.
func (c *Client) B2CPayment(ctx context.Context, req *pesa.B2CRequest) (*pesa.B2CResponse, error) {
	if req != nil {
		cp := *req
		cp.EnsureOriginatorConversationID()
		req = &cp
	}

	return execute[pesa.B2CRequest, pesa.B2CResponse](ctx, c, pesa.OperationB2C, req)
}

// B2BPayment implements pesa.PaymentClient.B2BPayment.
func (c *Client) B2BPayment(ctx context.Context, req *pesa.B2BRequest) (*pesa.B2BResponse, error) {
	if req != nil {
		cp := *req
		cp.ApplyDefaults()
		req = &cp
	}

	return execute[pesa.B2BRequest, pesa.B2BResponse](ctx, c, pesa.OperationB2B, req)
}

// AccountBalance implements pesa.AccountClient.AccountBalance.
func (c *Client) AccountBalance(ctx context.Context, req *pesa.AccountBalanceRequest) (*pesa.AccountBalanceResponse, error) {
	if req != nil {
		cp := *req
		cp.ApplyDefaults()
		req = &cp
	}

	return execute[pesa.AccountBalanceRequest, pesa.AccountBalanceResponse](ctx, c, pesa.OperationAccountBalance, req)
}

// Reversal implements pesa.AccountClient.Reversal.
func (c *Client) Reversal(ctx context.Context, req *pesa.ReversalRequest) (*pesa.ReversalResponse, error) {
	if req != nil {
		cp := *req
		cp.ApplyDefaults()
		req = &cp
	}

	return execute[pesa.ReversalRequest, pesa.ReversalResponse](ctx, c, pesa.OperationReversal, req)
}

// TransactionStatus implements pesa.AccountClient.TransactionStatus.
func (c *Client) TransactionStatus(ctx context.Context, req *pesa.TransactionStatusRequest) (*pesa.TransactionStatusResponse, error) {
	if req != nil {
		cp := *req
		cp.ApplyDefaults()
		req = &cp
	}

	return execute[pesa.TransactionStatusRequest, pesa.TransactionStatusResponse](ctx, c, pesa.OperationTransactionStatus, req)
}
