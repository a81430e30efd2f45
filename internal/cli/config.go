package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys, also used as flag names.
const (
	cfgRPC      = "rpc"
	cfgContract = "contract"
	cfgTimeout  = "timeout"
	cfgLogLevel = "log-level"
)

var (
	errMissingRPC      = errors.New("missing Neo RPC endpoint")
	errMissingContract = errors.New("missing claims contract hash")
)

// Config is a resolved configuration of the tool. Sources in priority
// order: flags, CLAIMS_* environment variables, config file, defaults.
type Config struct {
	RPC      string        `mapstructure:"rpc"`
	Contract string        `mapstructure:"contract"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLevel string        `mapstructure:"log-level"`
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %s", cfg.Timeout)
	}

	return &cfg, nil
}

// validate checks settings required to access the contract and returns
// the parsed contract hash.
func (c *Config) validate() (util.Uint160, error) {
	switch {
	case c.RPC == "":
		return util.Uint160{}, errMissingRPC
	case c.Contract == "":
		return util.Uint160{}, errMissingContract
	}
	return parseHash(c.Contract)
}

// parseHash decodes Neo address or hex-encoded LE script hash with optional
// 0x prefix.
func parseHash(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("'%s' is neither an address nor a script hash", s)
	}
	return h, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long: `Display the configuration resolved from all sources.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CLAIMS_*)
3. Config file (~/.claims/config.yaml or ./config.yaml)
4. Defaults`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", f)
		}

		return writeConfig(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

type configView struct {
	RPC      string `yaml:"rpc"`
	Contract string `yaml:"contract"`
	Timeout  string `yaml:"timeout"`
	LogLevel string `yaml:"log-level"`
}

func writeConfig(w io.Writer, cfg *Config) error {
	data, err := yaml.Marshal(configView{
		RPC:      cfg.RPC,
		Contract: cfg.Contract,
		Timeout:  cfg.Timeout.String(),
		LogLevel: cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
