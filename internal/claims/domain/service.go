package domain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/chain"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/observability/metrics"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/validation"
)

// Common errors returned by the claims service.
var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionFailed     = errors.New("transaction failed")
	ErrPurchaseEventNotFound = errors.New("purchase event not found")
	ErrWalletMismatch        = errors.New("wallet does not match purchase buyer")
	ErrNoSignatureCandidates = errors.New("no signature candidates produced")
)

// Config holds the claim resolution settings for the service.
type Config struct {
	NFTContract   common.Address
	StoreContract common.Address
	DomainName    string // optional override for the on-chain name()
	DomainVersion string // optional preferred domain version
	TierOffset    int64
	MinTier       int64
}

type service struct {
	verifier *Verifier
	domains  *DomainResolver
	signer   *CandidateSigner
	cfg      Config
}

// NewService creates the claims signing service.
func NewService(client chain.Client, key *ecdsa.PrivateKey, cfg Config) *service {
	return &service{
		verifier: NewVerifier(client, cfg.StoreContract),
		domains:  NewDomainResolver(client, cfg.NFTContract, cfg.DomainName, cfg.DomainVersion),
		signer:   NewCandidateSigner(key),
		cfg:      cfg,
	}
}

// Sign validates the request, verifies the purchase when a transaction
// hash is supplied, and returns every signature candidate over the
// (domain version × type layout) space. Verification is all-or-nothing;
// candidate collection tolerates partial failure.
func (s *service) Sign(ctx context.Context, req ClaimRequest) (*SignResult, error) {
	if err := validation.ValidateAddress(req.To); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidRequest, err)
	}
	if req.TxHash == "" && req.OrderID == "" {
		return nil, fmt.Errorf("%w: either orderId or txHash is required", ErrInvalidRequest)
	}
	if req.TxHash != "" {
		if err := validation.ValidateTxHash(req.TxHash); err != nil {
			return nil, fmt.Errorf("%w: txHash: %v", ErrInvalidRequest, err)
		}
	}

	recipient := common.HexToAddress(req.To)

	// The signed order hash binds the claim to one order. The transaction
	// hash doubles as the order identifier when present.
	orderID := req.TxHash
	if orderID == "" {
		orderID = req.OrderID
	}

	var (
		tier  int64
		buyer string
		skuID int64
	)
	if req.TxHash != "" {
		event, err := s.verifier.VerifyPurchase(ctx, common.HexToHash(req.TxHash), recipient)
		if err != nil {
			metrics.PurchaseVerification("failure")
			return nil, err
		}
		metrics.PurchaseVerification("success")

		buyer = event.Buyer.Hex()
		skuID = event.Sku.Int64()
		tier = ResolveTier(req.Tier, skuID, s.cfg.TierOffset, s.cfg.MinTier)
	} else {
		// Without a transaction there is nothing to derive the tier from,
		// so the caller must supply it.
		if req.Tier == nil {
			return nil, fmt.Errorf("%w: tier is required when txHash is absent", ErrInvalidRequest)
		}
		tier = *req.Tier
	}

	if err := validation.ValidateTier(tier); err != nil {
		return nil, fmt.Errorf("%w: tier: %v", ErrInvalidRequest, err)
	}

	dom, err := s.domains.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving signing domain: %w", err)
	}

	value := ClaimValue{
		To:        recipient,
		Tier:      uint8(tier),
		OrderHash: crypto.Keccak256Hash([]byte(orderID)),
		TokenURI:  req.TokenURI,
	}

	candidates, err := s.signer.SignCandidates(value, dom)
	if err != nil {
		return nil, err
	}
	metrics.SignatureCandidates(len(candidates))

	return &SignResult{
		RequestID:  uuid.New().String(),
		Candidates: candidates,
		Buyer:      buyer,
		SkuID:      skuID,
		OrderHash:  value.OrderHash.Hex(),
		Signer:     s.signer.Signer().Hex(),
	}, nil
}
