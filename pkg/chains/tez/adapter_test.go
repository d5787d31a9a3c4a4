package tez

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deterministic test key (DO NOT USE IN PRODUCTION)
var testSeed = []byte("atomex-playground-tezos-test-key")

func testSecretKey(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	require.Len(t, testSeed, ed25519.SeedSize)
	key := ed25519.NewKeyFromSeed(testSeed)
	return EncodeSecretKey(key), key
}

func TestParseSecretKey(t *testing.T) {
	encoded, key := testSecretKey(t)
	fullForm := encodeBase58Check(prefixEd25519SecretKey, key)

	tamperedFull := make([]byte, len(key))
	copy(tamperedFull, key)
	tamperedFull[40] ^= 0xff

	tests := []struct {
		name          string
		secretKey     string
		expectedError bool
	}{
		{
			name:      "seed form",
			secretKey: encoded,
		},
		{
			name:      "full key form",
			secretKey: fullForm,
		},
		{
			name:          "public half does not match",
			secretKey:     encodeBase58Check(prefixEd25519SecretKey, tamperedFull),
			expectedError: true,
		},
		{
			name:          "wrong prefix",
			secretKey:     encodeBase58Check(prefixEd25519PublicKey, testSeed),
			expectedError: true,
		},
		{
			name:          "not base58",
			secretKey:     "edsk0OIl",
			expectedError: true,
		},
		{
			name:          "empty",
			secretKey:     "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseSecretKey(tt.secretKey)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, key, parsed)
		})
	}
}

func TestDecodeBase58Check_Checksum(t *testing.T) {
	encoded, _ := testSecretKey(t)
	raw, err := base58.Decode(encoded)
	require.NoError(t, err)

	raw[len(raw)-1] ^= 0x01
	_, err = decodeBase58Check(base58.Encode(raw), prefixEd25519Seed, ed25519.SeedSize)
	assert.True(t, errors.Is(err, ErrInvalidChecksum))
}

func TestAdapter_DeriveIdentity(t *testing.T) {
	encoded, key := testSecretKey(t)
	adapter, err := NewAdapter(constants.NetworkTestnet, encoded)
	require.NoError(t, err)

	identity, err := adapter.DeriveIdentity(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(identity.PublicKey, "edpk"))
	assert.Len(t, identity.PublicKey, 54)
	assert.True(t, strings.HasPrefix(identity.Address, "tz1"))
	assert.Len(t, identity.Address, 36)

	publicKey, err := DecodePublicKey(identity.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, key.Public(), publicKey)

	again, err := adapter.DeriveIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, identity, again)
}

func TestAdapter_SignMessage(t *testing.T) {
	encoded, key := testSecretKey(t)
	adapter, err := NewAdapter(constants.NetworkTestnet, encoded)
	require.NoError(t, err)

	message := []byte("Signing in 1700000000000")
	signature, err := adapter.SignMessage(context.Background(), message)
	require.NoError(t, err)
	require.Len(t, signature, ed25519.SignatureSize)

	assert.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), messageDigest(message), signature))
	assert.False(t, ed25519.Verify(key.Public().(ed25519.PublicKey), message, signature), "raw message must not be signed directly")
}

func TestHelpers_AuthMessage(t *testing.T) {
	encoded, _ := testSecretKey(t)
	adapter, err := NewAdapter(constants.NetworkTestnet, encoded)
	require.NoError(t, err)

	helpers, err := adapter.NewHelpers(context.Background())
	require.NoError(t, err)

	at := time.UnixMilli(1700000000123)
	msg := helpers.AuthMessage(constants.AuthenticationMessage, "tz1whatever", at)

	assert.Equal(t, "Signing in ", msg.Message)
	assert.Equal(t, int64(1700000000123), msg.TimeStamp)
	assert.Equal(t, "Signing in 1700000000123", msg.MsgToSign)
	assert.Equal(t, AuthAlgorithm, msg.Algorithm)
}

func TestHelpers_Encoding(t *testing.T) {
	encoded, key := testSecretKey(t)
	adapter, err := NewAdapter(constants.NetworkTestnet, encoded)
	require.NoError(t, err)

	identity, err := adapter.DeriveIdentity(context.Background())
	require.NoError(t, err)
	helpers, err := adapter.NewHelpers(context.Background())
	require.NoError(t, err)

	publicKeyHex, err := helpers.EncodePublicKey(identity)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(key.Public().(ed25519.PublicKey)), publicKeyHex)

	_, err = helpers.EncodePublicKey(&chains.Identity{PublicKey: "bogus"})
	assert.Error(t, err)

	assert.Equal(t, "00ff", helpers.EncodeSignature([]byte{0x00, 0xff}))
}

func TestHelpers_EscrowUnsupported(t *testing.T) {
	helpers := &Helpers{network: constants.NetworkTestnet}

	_, err := helpers.BuildEscrowInitiation(context.Background(), &chains.EscrowInitiation{})
	assert.ErrorIs(t, err, chains.ErrUnsupportedOperation)

	_, err = helpers.InvokeContract(context.Background(), &chains.ContractCall{})
	assert.ErrorIs(t, err, chains.ErrUnsupportedOperation)
}

func TestAdapter_UnknownNetwork(t *testing.T) {
	encoded, _ := testSecretKey(t)
	adapter, err := NewAdapter("moonnet", encoded)
	require.NoError(t, err)

	_, err = adapter.NewHelpers(context.Background())
	assert.Error(t, err)
}

func TestRegisterChain(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	registry := chains.NewRegistry()

	RegisterChain(registry, logger, constants.NetworkTestnet)
	assert.True(t, registry.IsSupported(constants.ChainTezos))

	encoded, _ := testSecretKey(t)
	adapter, err := registry.New(constants.ChainTezos, encoded)
	require.NoError(t, err)
	assert.Equal(t, "tez", adapter.Chain())
	assert.Equal(t, "XTZ", adapter.Currency())

	_, err = registry.New(constants.ChainTezos, "edskbad")
	assert.Error(t, err)
}
