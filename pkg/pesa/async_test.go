package pesa_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesakit/pesakit-go/pkg/pesa"
)

type echoRequest struct{ Value string }

type echoResponse struct{ Value string }

var errEcho = errors.New("echo failed")

func echo(_ context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Value == "" {
		return nil, errEcho
	}

	return &echoResponse{Value: req.Value}, nil
}

func TestAsync(t *testing.T) {
	t.Parallel()

	ch := pesa.Async(context.Background(), echo, &echoRequest{Value: "hello"})

	out, ok := <-ch
	require.True(t, ok)
	require.NoError(t, out.Err)
	assert.Equal(t, "hello", out.Value.Value)

	_, ok = <-ch
	assert.False(t, ok, "channel closes after one outcome")

	out = <-pesa.Async(context.Background(), echo, &echoRequest{})
	require.ErrorIs(t, out.Err, errEcho)
	assert.Nil(t, out.Value)
}

func TestWithCallback(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})

	var (
		got    *echoResponse
		gotErr error
	)

	pesa.WithCallback(context.Background(), echo, &echoRequest{Value: "hi"}, func(res *echoResponse, err error) {
		got, gotErr = res, err

		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}

	require.NoError(t, gotErr)
	assert.Equal(t, "hi", got.Value)
}
