package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aria-lang/isoflow-go/internal/config"
)

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{"no flags", "", 0, "0.0.0.0:8080"},
		{"host only", "127.0.0.1", 0, "127.0.0.1:8080"},
		{"port only", "", 9000, "0.0.0.0:9000"},
		{"both", "localhost", 7000, "localhost:7000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := applyOverrides(config.NewAppConfig(), tt.host, tt.port)
			assert.Equal(t, tt.want, cfg.Addr())
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	cmd := rootCmd()
	for _, name := range []string{"env-file", "host", "port"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
