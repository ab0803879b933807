// Package pesa provides the types, interfaces, and helpers for working with
// the M-Pesa Daraja payment gateway.
//
// # Overview
//
// The pesa package defines the request and response payloads of every
// gateway operation (STK push, QR generation, C2B URL registration, B2C and
// B2B transfers, balance, reversal, and status queries), the Client interface
// that executes them, the token store abstraction, and the error taxonomy. A
// concrete client is built by the pesakit package:
//
//	import (
//	  "context"
//	  "log"
//	  "time"
//
//	  "github.com/pesakit/pesakit-go/pkg/pesa"
//	  "github.com/pesakit/pesakit-go/pkg/pesakit"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := pesakit.New(ctx, &pesa.Config{
//	    ConsumerKey:    "key",
//	    ConsumerSecret: "secret",
//	    Environment:    pesa.EnvironmentSandbox,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  req := pesa.NewStkPushRequest(pesa.StkPushParams{
//	    BusinessShortCode: "174379",
//	    PassKey:           "passkey",
//	    TransactionType:   pesa.TransactionTypePayBill,
//	    Amount:            1,
//	    PartyA:            "254708374149",
//	    PartyB:            "174379",
//	    PhoneNumber:       "254708374149",
//	    CallBackURL:       "https://example.com/callback",
//	    AccountReference:  "ref",
//	    TransactionDesc:   "payment",
//	  }, time.Now())
//
//	  res, err := cli.StkPush(ctx, req)
//	  if err != nil { log.Fatal(err) }
//	  _ = res
//	}
//
// # Authentication
//
// The client authenticates with the consumer key pair on first use and caches
// the bearer token until it expires. Concurrent callers share a single
// authentication attempt. When an operation answers 401 the token is
// discarded and the request is sent once more with a fresh token.
//
// # Errors
//
// Failures are reported with sentinel errors (ErrCredentialsNotSet,
// ErrInvalidAccessToken, ErrInvalidEnvironment, ErrParsingFailure,
// ErrUnknownFailure) and typed errors (GatewayError, AuthGatewayError,
// NetworkError, EncodingError), all usable with errors.Is and errors.As.
//
// # Token stores
//
// MemoryTokenStore is the default. NATSTokenStore shares one token between
// processes through a JetStream KV bucket, and EncryptedTokenStore wraps any
// store to encrypt the token at rest, for example with KMSCipher.
package pesa
