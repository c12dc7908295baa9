package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagLoader gives command-line flags precedence over file and environment
// values. Flags are matched to config keys by name.
type FlagLoader struct {
	cmd *cobra.Command
	v   *viper.Viper
}

// NewFlagLoader creates a FlagLoader for the given cobra command.
func NewFlagLoader(cmd *cobra.Command, v *viper.Viper) *FlagLoader {
	return &FlagLoader{cmd: cmd, v: v}
}

// String returns the flag value if explicitly set, otherwise the viper value.
func (f *FlagLoader) String(name string) string {
	if f.cmd.Flags().Changed(name) {
		val, _ := f.cmd.Flags().GetString(name)
		return val
	}
	return f.v.GetString(name)
}

// Bool returns the flag value if explicitly set, otherwise the viper value.
func (f *FlagLoader) Bool(name string) bool {
	if f.cmd.Flags().Changed(name) {
		val, _ := f.cmd.Flags().GetBool(name)
		return val
	}
	return f.v.GetBool(name)
}

// StringSlice returns the flag value if explicitly set, otherwise the viper value.
func (f *FlagLoader) StringSlice(name string) []string {
	if f.cmd.Flags().Changed(name) {
		val, _ := f.cmd.Flags().GetStringSlice(name)
		return val
	}
	return f.v.GetStringSlice(name)
}

// Apply copies every explicitly set flag among names into viper so that Load
// sees it.
func (f *FlagLoader) Apply(names ...string) {
	for _, name := range names {
		flag := f.cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}

		switch flag.Value.Type() {
		case "bool":
			f.v.Set(name, f.Bool(name))
		case "stringSlice":
			f.v.Set(name, f.StringSlice(name))
		default:
			f.v.Set(name, f.String(name))
		}
	}
}
