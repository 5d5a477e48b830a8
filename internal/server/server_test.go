package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/chain"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/claims/domain"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/config"
)

type stubClaimsService struct {
	result *domain.SignResult
	err    error
}

func (s *stubClaimsService) Sign(ctx context.Context, req domain.ClaimRequest) (*domain.SignResult, error) {
	return s.result, s.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.CORS.AllowOrigin = "*"
	cfg.Security.FilterEnabled = true
	cfg.Security.MaxBodySizeKB = 64
	cfg.RateLimit.Enabled = false
	return cfg
}

func newTestServer(svc *stubClaimsService) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testConfig(), svc, logger)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&stubClaimsService{})

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, "path %s", path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
	}
}

func TestSignRouted(t *testing.T) {
	svc := &stubClaimsService{result: &domain.SignResult{RequestID: "req-1"}}
	srv := newTestServer(svc)

	req := httptest.NewRequest("POST", "/api/v1/claims/sign", strings.NewReader(`{"to":"0x1111111111111111111111111111111111111111","orderId":"o","tier":1}`))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "req-1")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubClaimsService{})

	req := httptest.NewRequest("OPTIONS", "/api/v1/claims/sign", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubClaimsService{})

	req := httptest.NewRequest("GET", "/api/v1/claims/sign", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Contains(t, rr.Body.String(), "METHOD_NOT_ALLOWED")
}

// stubChainClient drives the full domain service without a node.
type stubChainClient struct {
	receipt *types.Receipt
	err     error
}

func (c *stubChainClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.receipt, c.err
}

func (c *stubChainClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return nil, ethereum.NotFound
}

func (c *stubChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(56), nil
}

func TestSignEndToEnd(t *testing.T) {
	buyer := common.HexToAddress("0x1111111111111111111111111111111111111111")
	store := common.HexToAddress("0x3333333333333333333333333333333333333333")
	txHash := common.HexToHash("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	parsed, err := abi.JSON(strings.NewReader(chain.StoreABI))
	require.NoError(t, err)

	var uplines [8]common.Address
	var levelAmounts [8]*big.Int
	for i := range levelAmounts {
		levelAmounts[i] = big.NewInt(0)
	}
	data, err := parsed.Events["Purchased"].Inputs.NonIndexed().Pack(
		big.NewInt(5), big.NewInt(1000), buyer, uplines, levelAmounts,
		big.NewInt(700), big.NewInt(300),
	)
	require.NoError(t, err)

	client := &stubChainClient{receipt: &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{{
			Address: store,
			Topics:  []common.Hash{chain.PurchasedEventID(), common.BytesToHash(buyer.Bytes())},
			Data:    data,
		}},
	}}

	key, err := crypto.HexToECDSA("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)

	svc := domain.NewService(client, key, domain.Config{
		StoreContract: store,
		MinTier:       1,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(testConfig(), svc, logger)

	body := `{"to":"` + buyer.Hex() + `","txHash":"` + txHash.Hex() + `"}`
	req := httptest.NewRequest("POST", "/api/v1/claims/sign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result domain.SignResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, buyer.Hex(), result.Buyer)
	assert.Equal(t, int64(5), result.SkuID)
	assert.Len(t, result.Candidates, 3)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), result.Signer)
}

func TestCORSHeadersOnPost(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowOrigin = "https://portal.example.com"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(cfg, &stubClaimsService{result: &domain.SignResult{}}, logger)

	req := httptest.NewRequest("POST", "/api/v1/claims/sign", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "https://portal.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}
