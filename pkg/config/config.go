package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sigweihq/atomexplay/pkg/constants"
	"github.com/sigweihq/atomexplay/pkg/types"
)

// DefaultEnvFile is loaded when no env file is given
const DefaultEnvFile = ".env"

// DefaultUsers are the demo accounts configured when PLAYGROUND_USERS is unset
var DefaultUsers = []string{"mm0", "client0"}

type Config struct {
	Network      string `validate:"required,oneof=mainnet testnet"`
	AtomexAPIURL string `validate:"required,url"`
	Ethereum     EthereumConfig
	Users        []*types.User `validate:"-"`
	LogLevel     slog.Level    `validate:"-"`
}

type EthereumConfig struct {
	RPCURL       string `validate:"required,url"`
	ChainID      int64  `validate:"gte=0"`
	SwapContract string `validate:"omitempty,eth_addr"`
}

// Load reads envFile (a missing file is not an error), then the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	network := getEnv("ATOMEX_NETWORK", constants.NetworkTestnet)

	// The public endpoints have a known chain id; custom nodes are asked for theirs
	rpcURL := getEnv("ETHEREUM_RPC_URL", "")
	var defaultChainID int64
	if rpcURL == "" {
		rpcURL = constants.EthereumRPCEndpoints[network]
		defaultChainID = constants.NetworkToEthereumChainID[network]
	}
	chainID, err := getInt64Env("ETHEREUM_CHAIN_ID", defaultChainID)
	if err != nil {
		return nil, err
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "INFO"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	users, err := loadUsers(getListEnv("PLAYGROUND_USERS", DefaultUsers))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Network:      network,
		AtomexAPIURL: getEnv("ATOMEX_API_URL", constants.NetworkToAtomexAPI[network]),
		Ethereum: EthereumConfig{
			RPCURL:       rpcURL,
			ChainID:      chainID,
			SwapContract: getEnv("ATOMEX_ETH_SWAP_CONTRACT", ""),
		},
		Users:    users,
		LogLevel: logLevel,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(c.Users) == 0 {
		return fmt.Errorf("invalid configuration: no users configured")
	}
	return nil
}

// loadUsers reads USER_<ID>_NAME and USER_<ID>_SECRET_KEYS_<CHAIN> for every id
func loadUsers(ids []string) ([]*types.User, error) {
	seen := make(map[string]bool, len(ids))
	users := make([]*types.User, 0, len(ids))

	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("duplicate user id %q in PLAYGROUND_USERS", id)
		}
		seen[id] = true

		prefix := "USER_" + strings.ToUpper(id) + "_"
		secretKeys := map[string]string{
			constants.ChainTezos:    getEnv(prefix+"SECRET_KEYS_TEZ", ""),
			constants.ChainEthereum: getEnv(prefix+"SECRET_KEYS_ETH", ""),
		}
		users = append(users, types.NewUser(id, getEnv(prefix+"NAME", id), secretKeys))
	}
	return users, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
