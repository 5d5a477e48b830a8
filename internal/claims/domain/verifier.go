package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/chain"
)

// Verifier confirms that a transaction carries a successful purchase from
// the store contract for the claiming wallet.
type Verifier struct {
	client chain.Client
	store  common.Address
}

// NewVerifier creates a purchase verifier bound to the store contract.
func NewVerifier(client chain.Client, store common.Address) *Verifier {
	return &Verifier{client: client, store: store}
}

// VerifyPurchase fetches the receipt for txHash and scans its logs for a
// Purchased event emitted by the store contract. Logs that fail to decode
// are skipped; only the absence of any decodable event is an error.
func (v *Verifier) VerifyPurchase(ctx context.Context, txHash common.Hash, recipient common.Address) (*chain.PurchaseEvent, error) {
	receipt, err := v.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, txHash.Hex())
		}
		return nil, fmt.Errorf("fetching receipt for %s: %w", txHash.Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrTransactionFailed, txHash.Hex())
	}

	var event *chain.PurchaseEvent
	for _, lg := range receipt.Logs {
		if !strings.EqualFold(lg.Address.Hex(), v.store.Hex()) {
			continue
		}
		ev, err := chain.ParsePurchasedLog(lg)
		if err != nil {
			continue
		}
		event = ev
		break
	}
	if event == nil {
		return nil, fmt.Errorf("%w: no Purchased event from %s in %s", ErrPurchaseEventNotFound, v.store.Hex(), txHash.Hex())
	}

	if !strings.EqualFold(event.Buyer.Hex(), recipient.Hex()) {
		return nil, fmt.Errorf("%w: purchase was made by %s", ErrWalletMismatch, event.Buyer.Hex())
	}

	return event, nil
}
