package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		cfg := DefaultLogConfig()
		cfg.OutputPath = filepath.Join(t.TempDir(), "logs", "test.log")

		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		logger.Info("hello")
		require.NoError(t, logger.Sync())
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		cfg := DefaultLogConfig()
		cfg.OutputPath = filepath.Join(t.TempDir(), "test.log")
		cfg.Level = "shouting"

		_, err := NewLogger(cfg)
		assert.Error(t, err)
	})
}
