package oracle

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vsc-eco/vsc-btc-vault/schemas"
)

// ParseConfig checks raw configuration against the schema, decodes it and
// validates every price path.
func ParseConfig(data []byte) (*OracleConfig, error) {
	if err := schemas.ValidateOracleConfig(data); err != nil {
		return nil, err
	}

	var cfg OracleConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and parses the configuration file at path.
func LoadConfig(path string) (*OracleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}
