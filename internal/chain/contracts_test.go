package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBuyer   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testSponsor = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testStore   = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// packPurchasedLog builds a log the way the store contract emits it:
// buyer in topic 1, everything else ABI-encoded in the data.
func packPurchasedLog(t *testing.T, buyer common.Address, sku int64) *types.Log {
	t.Helper()

	var uplines [8]common.Address
	var levelAmounts [8]*big.Int
	for i := range levelAmounts {
		levelAmounts[i] = big.NewInt(0)
	}

	data, err := storeABI.Events["Purchased"].Inputs.NonIndexed().Pack(
		big.NewInt(sku),
		big.NewInt(1000),
		testSponsor,
		uplines,
		levelAmounts,
		big.NewInt(700),
		big.NewInt(300),
	)
	require.NoError(t, err)

	return &types.Log{
		Address: testStore,
		Topics:  []common.Hash{purchasedSig, common.BytesToHash(buyer.Bytes())},
		Data:    data,
	}
}

func TestParsePurchasedLog(t *testing.T) {
	lg := packPurchasedLog(t, testBuyer, 5)

	ev, err := ParsePurchasedLog(lg)
	require.NoError(t, err)
	assert.Equal(t, testBuyer, ev.Buyer)
	assert.Equal(t, int64(5), ev.Sku.Int64())
	assert.Equal(t, testSponsor, ev.Sponsor)
	assert.Equal(t, int64(1000), ev.Price.Int64())
	assert.Equal(t, int64(700), ev.CompanyAmount.Int64())
	assert.Equal(t, int64(300), ev.ReserveAmount.Int64())
}

func TestParsePurchasedLog_WrongTopic(t *testing.T) {
	lg := packPurchasedLog(t, testBuyer, 5)
	lg.Topics[0] = common.HexToHash("0xdeadbeef")

	ev, err := ParsePurchasedLog(lg)
	assert.Nil(t, ev)
	assert.Error(t, err)
}

func TestParsePurchasedLog_NoTopics(t *testing.T) {
	ev, err := ParsePurchasedLog(&types.Log{})
	assert.Nil(t, ev)
	assert.Error(t, err)
}

func TestParsePurchasedLog_TruncatedData(t *testing.T) {
	lg := packPurchasedLog(t, testBuyer, 5)
	lg.Data = lg.Data[:16]

	ev, err := ParsePurchasedLog(lg)
	assert.Nil(t, ev)
	assert.Error(t, err)
}

// callClient stubs Client for name() calls.
type callClient struct {
	result []byte
	err    error
}

func (c *callClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return nil, errors.New("not implemented")
}

func (c *callClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.result, c.err
}

func (c *callClient) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func TestContractName(t *testing.T) {
	packed, err := erc721ABI.Methods["name"].Outputs.Pack("DreamPlay Membership")
	require.NoError(t, err)

	name, err := ContractName(context.Background(), &callClient{result: packed}, testStore)
	require.NoError(t, err)
	assert.Equal(t, "DreamPlay Membership", name)
}

func TestContractName_CallFails(t *testing.T) {
	_, err := ContractName(context.Background(), &callClient{err: errors.New("execution reverted")}, testStore)
	assert.Error(t, err)
}
