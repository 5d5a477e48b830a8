// Package transport provides HTTP request/response types for the claims domain.
package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/claims/domain"
)

// SignRequest is the HTTP request body for signing a claim.
type SignRequest struct {
	To       string   `json:"to"`
	Tier     TierHint `json:"tier"`
	OrderID  string   `json:"orderId"`
	TxHash   string   `json:"txHash"`
	TokenURI string   `json:"tokenURI"`
}

// ToDomain converts SignRequest to domain.ClaimRequest.
func (r SignRequest) ToDomain() domain.ClaimRequest {
	return domain.ClaimRequest{
		To:       strings.TrimSpace(r.To),
		Tier:     r.Tier.Value,
		OrderID:  strings.TrimSpace(r.OrderID),
		TxHash:   strings.TrimSpace(r.TxHash),
		TokenURI: r.TokenURI,
	}
}

// TierHint accepts a tier as either a JSON number or a numeric string.
// Anything else fails to unmarshal.
type TierHint struct {
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TierHint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Value = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			t.Value = nil
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.New("tier must be a number or numeric string")
		}
		t.Value = &n
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("tier must be a number or numeric string")
	}
	t.Value = &n
	return nil
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
