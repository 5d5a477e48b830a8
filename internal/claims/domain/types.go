// Package domain contains the business logic for claim verification and
// typed-data signing.
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ClaimRequest is a validated request to sign a tier claim.
type ClaimRequest struct {
	To       string `json:"to"`
	Tier     *int64 `json:"tier,omitempty"`
	OrderID  string `json:"orderId,omitempty"`
	TxHash   string `json:"txHash,omitempty"`
	TokenURI string `json:"tokenURI,omitempty"`
}

// ClaimValue is the payload that actually gets signed.
type ClaimValue struct {
	To        common.Address
	Tier      uint8
	OrderHash common.Hash
	TokenURI  string
}

// DomainCandidates describes the EIP-712 signing domain with the ordered
// set of versions to attempt.
type DomainCandidates struct {
	Name              string
	Versions          []string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// SignatureCandidate is one (domain version, type layout) combination's
// signature over a ClaimValue.
type SignatureCandidate struct {
	V               uint8  `json:"v"`
	R               string `json:"r"`
	S               string `json:"s"`
	OrderHash       string `json:"orderHash"`
	Tier            uint8  `json:"tier"`
	DomainName      string `json:"domainName"`
	DomainVersion   string `json:"domainVersion"`
	ChainID         int64  `json:"chainId"`
	Signer          string `json:"signerAddress"`
	IncludeTokenURI bool   `json:"includeTokenURI"`
}

// SignResult is the outcome of a successful claim signing.
type SignResult struct {
	RequestID  string               `json:"requestId"`
	Candidates []SignatureCandidate `json:"candidates"`
	Buyer      string               `json:"buyer,omitempty"`
	SkuID      int64                `json:"skuId,omitempty"`
	OrderHash  string               `json:"orderHash"`
	Signer     string               `json:"signerAddress"`
}
