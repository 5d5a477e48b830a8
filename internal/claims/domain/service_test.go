package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T, client *mockClient) *service {
	t.Helper()
	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)

	return NewService(client, key, Config{
		NFTContract:   nftAddr,
		StoreContract: storeAddr,
		MinTier:       1,
	})
}

func TestSign_WithVerifiedPurchase(t *testing.T) {
	client := &mockClient{
		receipt: successReceipt(purchasedLog(t, storeAddr, buyerAddr, 5)),
		callErr: errors.New("execution reverted"),
	}
	svc := testService(t, client)

	result, err := svc.Sign(context.Background(), ClaimRequest{
		To:     buyerAddr.Hex(),
		TxHash: testTxHash.Hex(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, buyerAddr.Hex(), result.Buyer)
	assert.Equal(t, int64(5), result.SkuID)
	assert.Equal(t, crypto.Keccak256Hash([]byte(testTxHash.Hex())).Hex(), result.OrderHash)
	require.Len(t, result.Candidates, 3)
	for _, c := range result.Candidates {
		assert.Equal(t, uint8(5), c.Tier)
		assert.Equal(t, result.Signer, c.Signer)
	}
}

func TestSign_OrderIDOnly(t *testing.T) {
	svc := testService(t, &mockClient{callErr: errors.New("execution reverted")})

	tier := int64(3)
	result, err := svc.Sign(context.Background(), ClaimRequest{
		To:      buyerAddr.Hex(),
		OrderID: "order-42",
		Tier:    &tier,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Buyer)
	assert.Zero(t, result.SkuID)
	assert.Equal(t, crypto.Keccak256Hash([]byte("order-42")).Hex(), result.OrderHash)
	require.NotEmpty(t, result.Candidates)
	assert.Equal(t, uint8(3), result.Candidates[0].Tier)
}

func TestSign_TierRequiredWithoutTxHash(t *testing.T) {
	svc := testService(t, &mockClient{})

	_, err := svc.Sign(context.Background(), ClaimRequest{
		To:      buyerAddr.Hex(),
		OrderID: "order-42",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSign_InvalidAddress(t *testing.T) {
	// The address check runs before any network access; a nil-receipt mock
	// would panic if it did not.
	svc := testService(t, &mockClient{})

	for _, to := range []string{"", "0x123", "not-an-address", buyerAddr.Hex() + "ff"} {
		_, err := svc.Sign(context.Background(), ClaimRequest{To: to, TxHash: testTxHash.Hex()})
		assert.ErrorIs(t, err, ErrInvalidRequest, "address %q", to)
	}
}

func TestSign_MissingOrderAndTx(t *testing.T) {
	svc := testService(t, &mockClient{})

	_, err := svc.Sign(context.Background(), ClaimRequest{To: buyerAddr.Hex()})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSign_MalformedTxHash(t *testing.T) {
	svc := testService(t, &mockClient{})

	_, err := svc.Sign(context.Background(), ClaimRequest{To: buyerAddr.Hex(), TxHash: "0x1234"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSign_WalletMismatchPropagates(t *testing.T) {
	client := &mockClient{receipt: successReceipt(purchasedLog(t, storeAddr, otherAddr, 5))}
	svc := testService(t, client)

	_, err := svc.Sign(context.Background(), ClaimRequest{
		To:     buyerAddr.Hex(),
		TxHash: testTxHash.Hex(),
	})
	assert.ErrorIs(t, err, ErrWalletMismatch)
}

func TestSign_TierOutOfRange(t *testing.T) {
	svc := testService(t, &mockClient{})

	tier := int64(300)
	_, err := svc.Sign(context.Background(), ClaimRequest{
		To:      buyerAddr.Hex(),
		OrderID: "order-42",
		Tier:    &tier,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSign_TierHintOverridesSku(t *testing.T) {
	client := &mockClient{
		receipt: successReceipt(purchasedLog(t, storeAddr, buyerAddr, 5)),
		callErr: errors.New("execution reverted"),
	}
	svc := testService(t, client)

	tier := int64(2)
	result, err := svc.Sign(context.Background(), ClaimRequest{
		To:     buyerAddr.Hex(),
		TxHash: testTxHash.Hex(),
		Tier:   &tier,
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(2), result.Candidates[0].Tier)
}

func TestSign_TokenURIDoublesLayouts(t *testing.T) {
	client := &mockClient{
		receipt: successReceipt(purchasedLog(t, storeAddr, buyerAddr, 5)),
		callErr: errors.New("execution reverted"),
	}
	svc := testService(t, client)

	result, err := svc.Sign(context.Background(), ClaimRequest{
		To:       buyerAddr.Hex(),
		TxHash:   testTxHash.Hex(),
		TokenURI: "ipfs://QmToken",
	})
	require.NoError(t, err)
	assert.Len(t, result.Candidates, 6)
}
