package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// StoreABI covers the single event the verifier cares about: the store
// contract's purchase record. Only the buyer is indexed; everything else
// rides in the log data.
const StoreABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "internalType": "address",    "name": "buyer",         "type": "address"},
      {"indexed": false, "internalType": "uint256",    "name": "sku",           "type": "uint256"},
      {"indexed": false, "internalType": "uint256",    "name": "price",         "type": "uint256"},
      {"indexed": false, "internalType": "address",    "name": "sponsor",       "type": "address"},
      {"indexed": false, "internalType": "address[8]", "name": "uplines",       "type": "address[8]"},
      {"indexed": false, "internalType": "uint256[8]", "name": "levelAmounts",  "type": "uint256[8]"},
      {"indexed": false, "internalType": "uint256",    "name": "companyAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256",    "name": "reserveAmount", "type": "uint256"}
    ],
    "name": "Purchased",
    "type": "event"
  }
]`

// ERC721NameABI is the minimal fragment for reading a token contract's name.
const ERC721NameABI = `[
  {
    "inputs": [],
    "name": "name",
    "outputs": [{"internalType": "string", "name": "", "type": "string"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	storeABI     abi.ABI
	erc721ABI    abi.ABI
	purchasedSig common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(StoreABI))
	if err != nil {
		panic("failed to parse store ABI: " + err.Error())
	}
	storeABI = parsed
	purchasedSig = storeABI.Events["Purchased"].ID

	parsed, err = abi.JSON(strings.NewReader(ERC721NameABI))
	if err != nil {
		panic("failed to parse ERC721 name ABI: " + err.Error())
	}
	erc721ABI = parsed
}

// PurchaseEvent is a decoded Purchased log. Immutable once parsed.
type PurchaseEvent struct {
	Buyer         common.Address
	Sku           *big.Int
	Price         *big.Int
	Sponsor       common.Address
	Uplines       [8]common.Address
	LevelAmounts  [8]*big.Int
	CompanyAmount *big.Int
	ReserveAmount *big.Int
}

// ParsePurchasedLog decodes a single receipt log as a Purchased event.
// Logs with a different topic signature fail fast before any data decoding.
func ParsePurchasedLog(lg *types.Log) (*PurchaseEvent, error) {
	if len(lg.Topics) == 0 || lg.Topics[0] != purchasedSig {
		return nil, errors.New("not a Purchased event")
	}
	if len(lg.Topics) < 2 {
		return nil, errors.New("Purchased event missing buyer topic")
	}

	var ev PurchaseEvent
	if err := storeABI.UnpackIntoInterface(&ev, "Purchased", lg.Data); err != nil {
		return nil, fmt.Errorf("unpacking Purchased event: %w", err)
	}
	ev.Buyer = common.BytesToAddress(lg.Topics[1].Bytes())
	return &ev, nil
}

// PurchasedEventID returns the topic-0 signature of the Purchased event.
func PurchasedEventID() common.Hash {
	return purchasedSig
}
