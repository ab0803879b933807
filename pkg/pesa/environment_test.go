package pesa_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesakit/pesakit-go/pkg/pesa"
)

func TestParseEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  pesa.Environment
	}{
		{"", pesa.EnvironmentSandbox},
		{"sandbox", pesa.EnvironmentSandbox},
		{"dev", pesa.EnvironmentSandbox},
		{"Development", pesa.EnvironmentSandbox},
		{"production", pesa.EnvironmentProduction},
		{" PROD ", pesa.EnvironmentProduction},
		{"live", pesa.EnvironmentProduction},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			env, err := pesa.ParseEnvironment(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, env)
		})
	}

	_, err := pesa.ParseEnvironment("staging")
	require.ErrorIs(t, err, pesa.ErrUnknownEnvironment)
}

func TestResolver_EveryOperationResolves(t *testing.T) {
	t.Parallel()

	for _, env := range []pesa.Environment{pesa.EnvironmentSandbox, pesa.EnvironmentProduction} {
		resolver, err := pesa.NewResolver(env, "")
		require.NoError(t, err)
		assert.Equal(t, env, resolver.Environment())

		base, err := env.BaseURL()
		require.NoError(t, err)

		for _, op := range pesa.Operations() {
			raw, err := resolver.URL(op)
			require.NoError(t, err, op)

			parsed, err := url.Parse(raw)
			require.NoError(t, err)
			assert.True(t, parsed.IsAbs())
			assert.Contains(t, raw, base)
		}
	}
}

func TestResolver_Paths(t *testing.T) {
	t.Parallel()

	resolver, err := pesa.NewResolver(pesa.EnvironmentSandbox, "")
	require.NoError(t, err)

	tests := map[pesa.Operation]string{
		pesa.OperationCredentials:       "https://sandbox.safaricom.co.ke/oauth/v1/generate?grant_type=client_credentials",
		pesa.OperationStkPush:           "https://sandbox.safaricom.co.ke/mpesa/stkpush/v1/processrequest",
		pesa.OperationStkPushQuery:      "https://sandbox.safaricom.co.ke/mpesa/stkpushquery/v1/query",
		pesa.OperationDynamicQR:         "https://sandbox.safaricom.co.ke/mpesa/qrcode/v1/generate",
		pesa.OperationC2BRegisterURL:    "https://sandbox.safaricom.co.ke/mpesa/c2b/v1/registerurl",
		pesa.OperationB2C:               "https://sandbox.safaricom.co.ke/mpesa/b2c/v3/paymentrequest",
		pesa.OperationTransactionStatus: "https://sandbox.safaricom.co.ke/mpesa/transactionstatus/v1/query",
		pesa.OperationAccountBalance:    "https://sandbox.safaricom.co.ke/mpesa/accountbalance/v1/query",
		pesa.OperationReversal:          "https://sandbox.safaricom.co.ke/mpesa/reversal/v1/request",
		pesa.OperationB2B:               "https://sandbox.safaricom.co.ke/mpesa/b2b/v1/paymentrequest",
	}

	for op, want := range tests {
		got, err := resolver.URL(op)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	production, err := pesa.NewResolver(pesa.EnvironmentProduction, "")
	require.NoError(t, err)

	got, err := production.URL(pesa.OperationStkPush)
	require.NoError(t, err)
	assert.Equal(t, "https://api.safaricom.co.ke/mpesa/stkpush/v1/processrequest", got)
}

func TestResolver_BaseOverride(t *testing.T) {
	t.Parallel()

	resolver, err := pesa.NewResolver(pesa.EnvironmentProduction, "http://127.0.0.1:8080/")
	require.NoError(t, err)

	got, err := resolver.URL(pesa.OperationB2C)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/mpesa/b2c/v3/paymentrequest", got)
}

func TestResolver_Errors(t *testing.T) {
	t.Parallel()

	_, err := pesa.NewResolver(pesa.Environment("staging"), "")
	require.ErrorIs(t, err, pesa.ErrInvalidEnvironment)

	_, err = pesa.NewResolver(pesa.EnvironmentSandbox, "not a url")
	require.ErrorIs(t, err, pesa.ErrInvalidEnvironment)

	resolver, err := pesa.NewResolver(pesa.EnvironmentSandbox, "")
	require.NoError(t, err)

	_, err = resolver.URL(pesa.Operation("refund"))
	require.ErrorIs(t, err, pesa.ErrInvalidEnvironment)
	require.ErrorIs(t, err, pesa.ErrUnknownOperation)
}
