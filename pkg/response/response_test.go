package response

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode APIResponseCode
		wantErr  apperr.Code
	}{
		{name: "not found", err: apperr.NotFound("doc"), wantCode: APIResponseCodeNotFound, wantErr: apperr.CodeNotFound},
		{name: "passthrough mismatch", err: fmt.Errorf("hydrate: %w", apperr.New(apperr.CodeInvalidPassthrough, "x")), wantCode: APIResponseCodeUnauthorized, wantErr: apperr.CodeInvalidPassthrough},
		{name: "already cancelled", err: apperr.ErrSubscriptionAlreadyCancelled, wantCode: APIResponseCodeConflict, wantErr: apperr.CodeSubscriptionAlreadyCancel},
		{name: "invalid arguments", err: apperr.InvalidArguments("empty owner"), wantCode: APIResponseCodeBadRequest, wantErr: apperr.CodeInvalidArguments},
		{name: "infrastructure", err: errors.New("connection refused"), wantCode: APIResponseCodeError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := FromError(tc.err)
			require.Equal(t, tc.wantCode, res.Code)
			require.Equal(t, tc.wantErr, res.Data.ErrorCode)
			require.Equal(t, tc.err.Error(), res.Data.Error)
		})
	}
}
