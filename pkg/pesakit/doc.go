// Package pesakit provides the main entry point for creating M-Pesa gateway clients.
//
// Applications normally build one client at start-up with New and pass it to
// the code that issues payments:
//
//	cli, err := pesakit.New(ctx, &pesa.Config{
//	  ConsumerKey:    os.Getenv("PESA_CONSUMER_KEY"),
//	  ConsumerSecret: os.Getenv("PESA_CONSUMER_SECRET"),
//	  Environment:    pesa.EnvironmentProduction,
//	})
//
// Code that cannot thread a handle through can use the process-wide client
// instead: Configure it once during bootstrap and fetch it with Instance.
// Configuring twice returns pesa.ErrAlreadyConfigured.
package pesakit
