package tez

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// base58check prefixes
var (
	prefixEd25519Seed      = []byte{13, 15, 58, 7}   // edsk (32-byte seed)
	prefixEd25519SecretKey = []byte{43, 246, 78, 7}  // edsk (64-byte key)
	prefixEd25519PublicKey = []byte{13, 15, 37, 217} // edpk
	prefixEd25519PKH       = []byte{6, 161, 159}     // tz1
)

const addressHashSize = 20

var ErrInvalidChecksum = errors.New("invalid base58check checksum")

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

// encodeBase58Check encodes data with a Tezos prefix and a double SHA-256 checksum
func encodeBase58Check(prefix, data []byte) string {
	payload := make([]byte, 0, len(prefix)+len(data)+4)
	payload = append(payload, prefix...)
	payload = append(payload, data...)
	payload = append(payload, checksum(payload)...)
	return base58.Encode(payload)
}

// decodeBase58Check decodes a prefixed value and returns the data after the prefix
func decodeBase58Check(encoded string, prefix []byte, size int) ([]byte, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}
	if len(raw) != len(prefix)+size+4 {
		return nil, fmt.Errorf("unexpected decoded length %d", len(raw))
	}

	payload, sum := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, ErrInvalidChecksum
	}
	if !bytes.HasPrefix(payload, prefix) {
		return nil, fmt.Errorf("unexpected prefix")
	}
	return payload[len(prefix):], nil
}

// ParseSecretKey decodes an edsk secret key in either the seed or the full-key form
func ParseSecretKey(secretKey string) (ed25519.PrivateKey, error) {
	if seed, err := decodeBase58Check(secretKey, prefixEd25519Seed, ed25519.SeedSize); err == nil {
		return ed25519.NewKeyFromSeed(seed), nil
	}

	full, err := decodeBase58Check(secretKey, prefixEd25519SecretKey, ed25519.PrivateKeySize)
	if err != nil {
		return nil, fmt.Errorf("invalid Ed25519 secret key: %w", err)
	}

	key := ed25519.NewKeyFromSeed(full[:ed25519.SeedSize])
	if !bytes.Equal(key[ed25519.SeedSize:], full[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("invalid Ed25519 secret key: public half does not match seed")
	}
	return key, nil
}

// EncodeSecretKey encodes a key as a seed-form edsk string
func EncodeSecretKey(key ed25519.PrivateKey) string {
	return encodeBase58Check(prefixEd25519Seed, key.Seed())
}

// EncodePublicKey encodes a public key as an edpk string
func EncodePublicKey(publicKey ed25519.PublicKey) string {
	return encodeBase58Check(prefixEd25519PublicKey, publicKey)
}

// DecodePublicKey decodes an edpk string
func DecodePublicKey(publicKey string) (ed25519.PublicKey, error) {
	raw, err := decodeBase58Check(publicKey, prefixEd25519PublicKey, ed25519.PublicKeySize)
	if err != nil {
		return nil, fmt.Errorf("invalid Ed25519 public key: %w", err)
	}
	return ed25519.PublicKey(raw), nil
}

// AddressFromPublicKey returns the tz1 address of a public key
func AddressFromPublicKey(publicKey ed25519.PublicKey) (string, error) {
	hasher, err := blake2b.New(addressHashSize, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create blake2b hasher: %w", err)
	}
	hasher.Write(publicKey)
	return encodeBase58Check(prefixEd25519PKH, hasher.Sum(nil)), nil
}

// messageDigest is the digest Tezos Ed25519 signers sign
func messageDigest(message []byte) []byte {
	digest := blake2b.Sum256(message)
	return digest[:]
}
