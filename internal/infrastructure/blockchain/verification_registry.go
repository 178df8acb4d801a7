package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// storeRecord(bytes32 recordId, bytes32 dataHash, bytes32 salt)
// deleteRecord(bytes32 recordId)
var (
	storeRecordSelector  = crypto.Keccak256([]byte("storeRecord(bytes32,bytes32,bytes32)"))[:4]
	deleteRecordSelector = crypto.Keccak256([]byte("deleteRecord(bytes32)"))[:4]
)

const registryGasLimit = 150000

// VerificationRegistry writes salted verification digests to the registry
// contract and signs transactions with the platform admin key. Only digests
// ever leave the database; the registry never sees applicant data.
type VerificationRegistry struct {
	client       *EVMClient
	contractAddr common.Address
	signerKey    *ecdsa.PrivateKey
	signerAddr   common.Address
	explorerURL  string
}

// NewVerificationRegistry creates a registry bound to one contract and signer
func NewVerificationRegistry(client *EVMClient, contractAddress, signerKeyHex, explorerURL string) (*VerificationRegistry, error) {
	if contractAddress == "" {
		return nil, fmt.Errorf("registry contract address is empty")
	}
	key, err := crypto.HexToECDSA(signerKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	return &VerificationRegistry{
		client:       client,
		contractAddr: common.HexToAddress(contractAddress),
		signerKey:    key,
		signerAddr:   crypto.PubkeyToAddress(key.PublicKey),
		explorerURL:  explorerURL,
	}, nil
}

// SignerAddress returns the address transactions are sent from
func (r *VerificationRegistry) SignerAddress() string {
	return r.signerAddr.Hex()
}

// StoreProof writes the digest and salt for recordID on chain and returns
// the transaction hash.
func (r *VerificationRegistry) StoreProof(ctx context.Context, recordID, digestHex, saltHex string) (string, error) {
	data := make([]byte, 0, 4+3*32)
	data = append(data, storeRecordSelector...)
	data = append(data, recordKey(recordID)...)
	data = append(data, common.LeftPadBytes(common.FromHex(digestHex), 32)...)
	data = append(data, common.LeftPadBytes(common.FromHex(saltHex), 32)...)

	return r.send(ctx, data)
}

// DeleteProof removes the record for recordID from the registry and returns
// the transaction hash.
func (r *VerificationRegistry) DeleteProof(ctx context.Context, recordID string) (string, error) {
	data := make([]byte, 0, 4+32)
	data = append(data, deleteRecordSelector...)
	data = append(data, recordKey(recordID)...)

	return r.send(ctx, data)
}

// TxURL returns the explorer link for a transaction hash
func (r *VerificationRegistry) TxURL(txHash string) string {
	if r.explorerURL == "" {
		return txHash
	}
	return fmt.Sprintf("%s/tx/%s", r.explorerURL, txHash)
}

func (r *VerificationRegistry) send(ctx context.Context, data []byte) (string, error) {
	nonce, err := r.client.PendingNonceAt(ctx, r.signerAddr)
	if err != nil {
		return "", fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := r.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, r.contractAddr, big.NewInt(0), registryGasLimit, gasPrice, data)

	signer := types.LatestSignerForChainID(r.client.ChainID())
	signedTx, err := types.SignTx(tx, signer, r.signerKey)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}

	if err := r.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}
	return signedTx.Hash().Hex(), nil
}

// recordKey maps an application record id to its bytes32 registry key
func recordKey(recordID string) []byte {
	return crypto.Keccak256([]byte(recordID))
}
