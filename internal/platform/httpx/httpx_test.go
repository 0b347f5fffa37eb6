package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{fmt.Errorf("party name: %w", ErrValidation), http.StatusBadRequest, "party name: validation failed"},
		{fmt.Errorf("party 9: %w", ErrNotFound), http.StatusNotFound, "party 9: resource not found"},
		{fmt.Errorf("key reused: %w", ErrConflict), http.StatusConflict, "key reused: conflict"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Failed."},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err, "Failed.")
		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body ErrorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, tc.body, body.Error)
	}
}
