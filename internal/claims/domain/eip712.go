package domain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/chain"
)

// DefaultDomainName is used when the NFT contract does not answer name()
// and no override is configured.
const DefaultDomainName = "DreamPlay Membership"

// fallbackDomainVersions is the version search order when the deployed
// contract's accepted domain version is unknown.
var fallbackDomainVersions = []string{"1", "0", "2"}

// DomainResolver determines the EIP-712 signing domain for the NFT
// contract, including the ordered set of candidate versions to try.
type DomainResolver struct {
	client          chain.Client
	contract        common.Address
	nameOverride    string
	versionOverride string
}

// NewDomainResolver creates a resolver for the given verifying contract.
func NewDomainResolver(client chain.Client, contract common.Address, nameOverride, versionOverride string) *DomainResolver {
	return &DomainResolver{
		client:          client,
		contract:        contract,
		nameOverride:    nameOverride,
		versionOverride: versionOverride,
	}
}

// Resolve queries the contract name and chain id and assembles the
// candidate version list. A failed name() call falls back to
// DefaultDomainName; a failed chain id read is fatal.
func (r *DomainResolver) Resolve(ctx context.Context) (*DomainCandidates, error) {
	name := DefaultDomainName
	if onChain, err := chain.ContractName(ctx, r.client, r.contract); err == nil && onChain != "" {
		name = onChain
	}
	if r.nameOverride != "" {
		name = r.nameOverride
	}

	chainID, err := r.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading chain id: %w", err)
	}

	return &DomainCandidates{
		Name:              name,
		Versions:          candidateVersions(r.versionOverride),
		ChainID:           chainID,
		VerifyingContract: r.contract,
	}, nil
}

// candidateVersions returns the override (if any) followed by the fixed
// fallback sequence, de-duplicated preserving first-seen order.
func candidateVersions(override string) []string {
	seen := make(map[string]bool)
	var versions []string
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		versions = append(versions, v)
	}

	add(override)
	for _, v := range fallbackDomainVersions {
		add(v)
	}
	return versions
}

var (
	shortClaimType = []apitypes.Type{
		{Name: "to", Type: "address"},
		{Name: "tier", Type: "uint8"},
		{Name: "orderHash", Type: "bytes32"},
	}
	extendedClaimType = []apitypes.Type{
		{Name: "to", Type: "address"},
		{Name: "tier", Type: "uint8"},
		{Name: "orderHash", Type: "bytes32"},
		{Name: "tokenURI", Type: "string"},
	}
)

// CandidateSigner signs a ClaimValue under every candidate domain version
// and type layout combination.
type CandidateSigner struct {
	key    *ecdsa.PrivateKey
	signer common.Address
}

// NewCandidateSigner creates a signer from the server's private key.
func NewCandidateSigner(key *ecdsa.PrivateKey) *CandidateSigner {
	return &CandidateSigner{
		key:    key,
		signer: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Signer returns the address corresponding to the signing key.
func (s *CandidateSigner) Signer() common.Address {
	return s.signer
}

// SignCandidates enumerates versions × layouts and collects every
// combination that signs successfully. Individual failures indicate a
// schema-construction problem with that combination and are skipped; only
// an empty result is an error. With a token URI the extended layout is
// tried first, otherwise only the short layout is attempted.
func (s *CandidateSigner) SignCandidates(value ClaimValue, dom *DomainCandidates) ([]SignatureCandidate, error) {
	layouts := []bool{false}
	if value.TokenURI != "" {
		layouts = []bool{true, false}
	}

	var candidates []SignatureCandidate
	for _, version := range dom.Versions {
		for _, extended := range layouts {
			sig, err := s.sign(value, dom, version, extended)
			if err != nil {
				continue
			}
			candidates = append(candidates, SignatureCandidate{
				V:               sig[64] + 27,
				R:               hexEncode(sig[:32]),
				S:               hexEncode(sig[32:64]),
				OrderHash:       value.OrderHash.Hex(),
				Tier:            value.Tier,
				DomainName:      dom.Name,
				DomainVersion:   version,
				ChainID:         dom.ChainID.Int64(),
				Signer:          s.signer.Hex(),
				IncludeTokenURI: extended,
			})
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoSignatureCandidates
	}
	return candidates, nil
}

func (s *CandidateSigner) sign(value ClaimValue, dom *DomainCandidates, version string, extended bool) ([]byte, error) {
	claimType := shortClaimType
	if extended {
		claimType = extendedClaimType
	}

	message := apitypes.TypedDataMessage{
		"to":        value.To.Hex(),
		"tier":      math.NewHexOrDecimal256(int64(value.Tier)),
		"orderHash": value.OrderHash.Hex(),
	}
	if extended {
		message["tokenURI"] = value.TokenURI
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Claim": claimType,
		},
		PrimaryType: "Claim",
		Domain: apitypes.TypedDataDomain{
			Name:              dom.Name,
			Version:           version,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(dom.ChainID)),
			VerifyingContract: dom.VerifyingContract.Hex(),
		},
		Message: message,
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, err
	}
	return crypto.Sign(hash, s.key)
}

func hexEncode(b []byte) string {
	return "0x" + common.Bytes2Hex(b)
}
