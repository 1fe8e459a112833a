package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/qcov/internal/utils"
)

// DefaultDataFile is read when no path argument or data_file is given.
const DefaultDataFile = "Employee_Survey_Data.csv"

// Global configuration structure.
type Global struct {
	DataFile     string `mapstructure:"data_file" yaml:"data_file"`
	GroupColumn  string `mapstructure:"group_column" yaml:"group_column"`
	ColumnPrefix string `mapstructure:"column_prefix" yaml:"column_prefix"`
	ColumnSuffix string `mapstructure:"column_suffix" yaml:"column_suffix"`
	Precision    int    `mapstructure:"precision" yaml:"precision"`
	Format       string `mapstructure:"format" yaml:"format"`
	// Delimiter is "," ";" or "tab"; empty picks by file extension.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".qcov"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.qcov/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("QCOV")
	v.AutomaticEnv()

	v.SetDefault("data_file", DefaultDataFile)
	v.SetDefault("group_column", "Supervisor")
	v.SetDefault("column_prefix", "Q")
	v.SetDefault("column_suffix", "Number")
	v.SetDefault("precision", 3)
	v.SetDefault("format", "text")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Precision < 0 {
		c.Precision = 3
	}
	return &c, nil
}

// ParseDelimiter converts the configured delimiter name into a rune. Zero means auto.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab')", s)
	}
}
