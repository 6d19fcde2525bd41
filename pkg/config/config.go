// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd/utca/cmd)
package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/utca/pkg/core"
)

// EnvPrefix prefixes environment overrides, e.g. UTCA_FRACTION=ToMole.
const EnvPrefix = "UTCA"

// Keys of the settings recognized in files, environment and flags.
const (
	KeyFraction   = "fraction"
	KeyFrom       = "from"
	KeySignedness = "signedness"
	KeyAdduct     = "adduct"
	KeyPrecision  = "precision"
	KeyGroups     = "groups"
	KeySort       = "sort"
	KeyOrder      = "order"
	KeyJoin       = "join"
	KeyDDOF       = "ddof"
	KeyCacheSize  = "cache-size"
	KeyLogLevel   = "log-level"
	KeyLogFormat  = "log-format"
)

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	d := core.DefaultSettings()
	v.SetDefault(KeyFraction, d.Fraction.String())
	v.SetDefault(KeyFrom, d.From.String())
	v.SetDefault(KeySignedness, d.Signedness.String())
	v.SetDefault(KeyAdduct, float64(d.Adduct))
	v.SetDefault(KeyPrecision, d.Precision)
	v.SetDefault(KeyGroups, []map[string]interface{}{})
	v.SetDefault(KeySort, d.Sort.String())
	v.SetDefault(KeyOrder, d.Order.String())
	v.SetDefault(KeyJoin, d.Join.String())
	v.SetDefault(KeyDDOF, d.DDOF)
	v.SetDefault(KeyCacheSize, 64)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// ReadFile merges a settings file (YAML, TOML or JSON by extension) into v.
// An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	return nil
}

// NewSettings decodes the pipeline settings from v. Enum values are matched
// case-insensitively and the adduct may be given by name.
func NewSettings(v *viper.Viper) (core.Settings, error) {
	var s core.Settings
	err := v.Unmarshal(&s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return core.Settings{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := Validate(s); err != nil {
		return core.Settings{}, err
	}
	return s, nil
}

// Validate checks settings that decode but cannot be used.
func Validate(s core.Settings) error {
	var errs []string
	if s.Precision > 15 {
		errs = append(errs, fmt.Sprintf("precision %d exceeds 15 decimal places", s.Precision))
	}
	for i, g := range s.Groups {
		if g.Filter.Value < 0 {
			errs = append(errs, fmt.Sprintf("group %d filter must be non-negative", i))
		}
	}
	if len(errs) > 0 {
		return &core.ValidationError{Field: "Settings", Message: strings.Join(errs, "; ")}
	}
	return nil
}
