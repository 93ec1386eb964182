package adapter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code, _ := strconv.Atoi(r.URL.Query().Get("code"))
		w.WriteHeader(code)
		_, _ = w.Write([]byte("details"))
	}))
	defer srv.Close()

	tests := []struct {
		code int
		want error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusTooManyRequests, ErrTooManyRequests},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusServiceUnavailable, ErrUnavailable},
	}

	client := resty.New()
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			resp, err := client.R().SetQueryParam("code", strconv.Itoa(tt.code)).Get(srv.URL)
			require.NoError(t, err)

			mapped := mapHTTPError(resp)
			assert.ErrorIs(t, mapped, tt.want)
			assert.Contains(t, mapped.Error(), "details")
		})
	}

	t.Run("success", func(t *testing.T) {
		resp, err := client.R().SetQueryParam("code", "204").Get(srv.URL)
		require.NoError(t, err)
		assert.NoError(t, mapHTTPError(resp))
	})

	t.Run("unmapped", func(t *testing.T) {
		resp, err := client.R().SetQueryParam("code", "418").Get(srv.URL)
		require.NoError(t, err)
		assert.EqualError(t, mapHTTPError(resp), "http 418: details")
	})
}

func TestMapGRPCError(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, ErrUnauthorized},
		{codes.PermissionDenied, ErrForbidden},
		{codes.NotFound, ErrNotFound},
		{codes.AlreadyExists, ErrConflict},
		{codes.Aborted, ErrConflict},
		{codes.InvalidArgument, ErrBadRequest},
		{codes.ResourceExhausted, ErrTooManyRequests},
		{codes.Unavailable, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := mapGRPCError(status.Error(tt.code, "boom"))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.NoError(t, mapGRPCError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, mapGRPCError(plain))
}
