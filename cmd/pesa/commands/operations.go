package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pesakit/pesakit-go/internal/constants"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// clientFactory builds the gateway client; replaced in tests.
var clientFactory = newGatewayClient

// operationCommand describes one gateway operation exposed as a subcommand.
type operationCommand[Req, Res any] struct {
	use     string
	short   string
	long    string
	prepare func(cmd *cobra.Command, req *Req) error
	call    func(client pesa.Client) func(context.Context, *Req) (*Res, error)
	rows    func(res *Res) [][]string
}

func (o operationCommand[Req, Res]) build() *cobra.Command {
	var requestFile string

	cmd := &cobra.Command{
		Use:   o.use,
		Short: o.short,
		Long:  o.long,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req Req

			err := loadRequestFile(requestFile, &req)
			if err != nil {
				return err
			}

			if o.prepare != nil {
				err = o.prepare(cmd, &req)
				if err != nil {
					return err
				}
			}

			client, err := clientFactory(cmd.Context())
			if err != nil {
				return err
			}

			res, err := o.call(client)(cmd.Context(), &req)
			if err != nil {
				return fmt.Errorf("%s failed: %w", o.use, err)
			}

			return renderOutput(cmd.OutOrStdout(), res, o.rows(res))
		},
	}

	cmd.Flags().StringVarP(&requestFile, "file", "f", "", "request file (JSON or YAML)")

	return cmd
}

func conversationRows(originatorID, conversationID, code, description string) [][]string {
	return [][]string{
		{"Originator Conversation ID", originatorID},
		{"Conversation ID", conversationID},
		{"Response Code", code},
		{"Response Description", description},
	}
}

// derivePassword fills Timestamp and Password from --passkey when the
// request file leaves Password empty.
func derivePassword(cmd *cobra.Command, shortCode string, password, timestamp *string) error {
	if *password != "" {
		return nil
	}

	passKey, _ := cmd.Flags().GetString("passkey")
	if passKey == "" {
		return constants.ErrPassKeyRequired
	}

	*timestamp = pesa.Timestamp(time.Now())
	*password = pesa.Password(shortCode, passKey, *timestamp)

	return nil
}

// NewStkPushCommand creates the stkpush command.
func NewStkPushCommand() *cobra.Command {
	cmd := operationCommand[pesa.StkPushRequest, pesa.StkPushResponse]{
		use:   "stkpush",
		short: "Send an STK push payment prompt",
		long:  "Send an STK push (Lipa na M-Pesa Online) prompt to a customer's phone",
		prepare: func(cmd *cobra.Command, req *pesa.StkPushRequest) error {
			return derivePassword(cmd, req.BusinessShortCode, &req.Password, &req.Timestamp)
		},
		call: func(client pesa.Client) func(context.Context, *pesa.StkPushRequest) (*pesa.StkPushResponse, error) {
			return client.StkPush
		},
		rows: func(res *pesa.StkPushResponse) [][]string {
			return [][]string{
				{"Merchant Request ID", res.MerchantRequestID},
				{"Checkout Request ID", res.CheckoutRequestID},
				{"Response Code", res.ResponseCode},
				{"Response Description", res.ResponseDescription},
				{"Customer Message", res.CustomerMessage},
			}
		},
	}.build()

	cmd.Flags().String("passkey", "", "pass key used to derive the password when the file has none")

	return cmd
}

// NewStkQueryCommand creates the stkquery command.
func NewStkQueryCommand() *cobra.Command {
	cmd := operationCommand[pesa.StkPushQueryRequest, pesa.StkPushQueryResponse]{
		use:   "stkquery",
		short: "Query the status of an STK push",
		prepare: func(cmd *cobra.Command, req *pesa.StkPushQueryRequest) error {
			return derivePassword(cmd, req.BusinessShortCode, &req.Password, &req.Timestamp)
		},
		call: func(client pesa.Client) func(context.Context, *pesa.StkPushQueryRequest) (*pesa.StkPushQueryResponse, error) {
			return client.StkPushQuery
		},
		rows: func(res *pesa.StkPushQueryResponse) [][]string {
			return [][]string{
				{"Merchant Request ID", res.MerchantRequestID},
				{"Checkout Request ID", res.CheckoutRequestID},
				{"Response Code", res.ResponseCode},
				{"Response Description", res.ResponseDescription},
				{"Result Code", res.ResultCode},
				{"Result Description", res.ResultDesc},
			}
		},
	}.build()

	cmd.Flags().String("passkey", "", "pass key used to derive the password when the file has none")

	return cmd
}

// NewQRCommand creates the qr command.
func NewQRCommand() *cobra.Command {
	return operationCommand[pesa.DynamicQRRequest, pesa.DynamicQRResponse]{
		use:   "qr",
		short: "Generate a dynamic payment QR code",
		call: func(client pesa.Client) func(context.Context, *pesa.DynamicQRRequest) (*pesa.DynamicQRResponse, error) {
			return client.GenerateQR
		},
		rows: func(res *pesa.DynamicQRResponse) [][]string {
			return [][]string{
				{"Request ID", res.RequestID},
				{"Response Code", res.ResponseCode},
				{"Response Description", res.ResponseDescription},
				{"QR Code", fmt.Sprintf("%d bytes (use --output json for the image)", len(res.QRCode))},
			}
		},
	}.build()
}

// NewC2BRegisterCommand creates the c2b-register command.
func NewC2BRegisterCommand() *cobra.Command {
	return operationCommand[pesa.C2BRegisterURLRequest, pesa.C2BRegisterURLResponse]{
		use:   "c2b-register",
		short: "Register C2B confirmation and validation URLs",
		call: func(client pesa.Client) func(context.Context, *pesa.C2BRegisterURLRequest) (*pesa.C2BRegisterURLResponse, error) {
			return client.RegisterC2BURL
		},
		rows: func(res *pesa.C2BRegisterURLResponse) [][]string {
			return [][]string{
				{"Originator Conversation ID", res.OriginatorCoversationID},
				{"Response Code", res.ResponseCode},
				{"Response Description", res.ResponseDescription},
			}
		},
	}.build()
}

// NewB2CCommand creates the b2c command.
func NewB2CCommand() *cobra.Command {
	return operationCommand[pesa.B2CRequest, pesa.B2CResponse]{
		use:   "b2c",
		short: "Send a business to customer payment",
		call: func(client pesa.Client) func(context.Context, *pesa.B2CRequest) (*pesa.B2CResponse, error) {
			return client.B2CPayment
		},
		rows: func(res *pesa.B2CResponse) [][]string {
			return conversationRows(res.OriginatorConversationID, res.ConversationID, res.ResponseCode, res.ResponseDescription)
		},
	}.build()
}

// NewB2BCommand creates the b2b command.
func NewB2BCommand() *cobra.Command {
	return operationCommand[pesa.B2BRequest, pesa.B2BResponse]{
		use:   "b2b",
		short: "Send a business to business payment",
		call: func(client pesa.Client) func(context.Context, *pesa.B2BRequest) (*pesa.B2BResponse, error) {
			return client.B2BPayment
		},
		rows: func(res *pesa.B2BResponse) [][]string {
			return conversationRows(res.OriginatorConversationID, res.ConversationID, res.ResponseCode, res.ResponseDescription)
		},
	}.build()
}

// NewBalanceCommand creates the balance command.
func NewBalanceCommand() *cobra.Command {
	return operationCommand[pesa.AccountBalanceRequest, pesa.AccountBalanceResponse]{
		use:   "balance",
		short: "Query a short code account balance",
		call: func(client pesa.Client) func(context.Context, *pesa.AccountBalanceRequest) (*pesa.AccountBalanceResponse, error) {
			return client.AccountBalance
		},
		rows: func(res *pesa.AccountBalanceResponse) [][]string {
			return conversationRows(res.OriginatorConversationID, res.ConversationID, res.ResponseCode, res.ResponseDescription)
		},
	}.build()
}

// NewReversalCommand creates the reversal command.
func NewReversalCommand() *cobra.Command {
	return operationCommand[pesa.ReversalRequest, pesa.ReversalResponse]{
		use:   "reversal",
		short: "Reverse a completed transaction",
		call: func(client pesa.Client) func(context.Context, *pesa.ReversalRequest) (*pesa.ReversalResponse, error) {
			return client.Reversal
		},
		rows: func(res *pesa.ReversalResponse) [][]string {
			return conversationRows(res.OriginatorConversationID, res.ConversationID, res.ResponseCode, res.ResponseDescription)
		},
	}.build()
}

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return operationCommand[pesa.TransactionStatusRequest, pesa.TransactionStatusResponse]{
		use:   "status",
		short: "Query the status of a transaction",
		call: func(client pesa.Client) func(context.Context, *pesa.TransactionStatusRequest) (*pesa.TransactionStatusResponse, error) {
			return client.TransactionStatus
		},
		rows: func(res *pesa.TransactionStatusResponse) [][]string {
			return conversationRows(res.OriginatorConversationID, res.ConversationID, res.ResponseCode, res.ResponseDescription)
		},
	}.build()
}
