package cmd

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/kuvahaku/kuvahaku/internal/config"
)

func TestConfigFlagsAreDefined(t *testing.T) {
	root := NewRootCmd()

	defined := map[string]bool{}
	root.PersistentFlags().VisitAll(func(f *pflag.Flag) { defined[f.Name] = true })
	for _, sub := range root.Commands() {
		sub.Flags().VisitAll(func(f *pflag.Flag) { defined[f.Name] = true })
	}

	for _, name := range config.FlagNames() {
		if !defined[name] {
			t.Errorf("Config reads flag %q but no command defines it", name)
		}
	}
}
