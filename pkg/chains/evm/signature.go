package evm

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureScheme implements EIP-191 personal message signing and address derivation
type SignatureScheme struct{}

func NewSignatureScheme() *SignatureScheme {
	return &SignatureScheme{}
}

// SignPersonalMessage signs "\x19Ethereum Signed Message:\n" + len + message,
// as geth's personal_sign does
func (s *SignatureScheme) SignPersonalMessage(privateKey interface{}, message []byte) ([]byte, error) {
	pk, ok := privateKey.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("invalid private key type for EVM")
	}

	signature, err := crypto.Sign(accounts.TextHash(message), pk)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	// Convert v from recovery id to ethereum format (27/28)
	signature[crypto.RecoveryIDOffset] += 27

	return signature, nil
}

// RecoverPersonalMessageSigner returns the address that produced a personal message signature
func (s *SignatureScheme) RecoverPersonalMessageSigner(message, signature []byte) (string, error) {
	if len(signature) != crypto.SignatureLength {
		return "", fmt.Errorf("invalid signature length %d", len(signature))
	}

	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	publicKey, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*publicKey).Hex(), nil
}

// DeriveAddress derives the checksummed address from a private key
func (s *SignatureScheme) DeriveAddress(privateKey interface{}) (string, error) {
	pk, ok := privateKey.(*ecdsa.PrivateKey)
	if !ok {
		return "", fmt.Errorf("invalid private key type for EVM")
	}

	return crypto.PubkeyToAddress(pk.PublicKey).Hex(), nil
}
