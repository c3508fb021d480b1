package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/api"
)

func TestLoginFailureMessages(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{"unauthorized", &api.Error{Kind: api.KindStatus, Status: http.StatusUnauthorized, Err: api.ErrUnauthorized}, http.StatusUnauthorized, msgLoginRejected},
		{"bad request", &api.Error{Kind: api.KindStatus, Status: http.StatusBadRequest}, http.StatusUnauthorized, msgLoginRejected},
		{"rejected", &api.Error{Kind: api.KindRejected}, http.StatusUnauthorized, msgLoginRejected},
		{"server error", &api.Error{Kind: api.KindStatus, Status: http.StatusInternalServerError}, http.StatusBadGateway, msgLoginConnection},
		{"network", &api.Error{Kind: api.KindNetwork, Err: errors.New("refused")}, http.StatusBadGateway, msgLoginConnection},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, text := loginFailure(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantText, text)
		})
	}
}
