package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/testutil"
	"github.com/runoshun/star/internal/usecase"
)

func TestInitConfig_Execute(t *testing.T) {
	t.Run("creates local config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.LocalConfigInfo = domain.ConfigInfo{
			Path:   "/test/.star/config.toml",
			Exists: false,
		}
		cfg := domain.NewDefaultConfig()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Global: false,
			Config: cfg,
		})

		require.NoError(t, err)
		assert.Equal(t, "/test/.star/config.toml", out.Path)
		assert.True(t, manager.InitLocalCalled)
		assert.False(t, manager.InitGlobalCalled)
	})

	t.Run("creates global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalConfigInfo = domain.ConfigInfo{
			Path:   "/home/test/.config/star/config.toml",
			Exists: false,
		}
		cfg := domain.NewDefaultConfig()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Global: true,
			Config: cfg,
		})

		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/star/config.toml", out.Path)
		assert.False(t, manager.InitLocalCalled)
		assert.True(t, manager.InitGlobalCalled)
	})

	t.Run("returns error when local config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.LocalConfigInfo = domain.ConfigInfo{
			Path:   "/test/.star/config.toml",
			Exists: true,
		}
		manager.InitLocalErr = domain.ErrConfigExists
		cfg := domain.NewDefaultConfig()

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Global: false,
			Config: cfg,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("returns error when global config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalConfigInfo = domain.ConfigInfo{
			Path:   "/home/test/.config/star/config.toml",
			Exists: true,
		}
		manager.InitGlobalErr = domain.ErrConfigExists
		cfg := domain.NewDefaultConfig()

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Global: true,
			Config: cfg,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("nil config falls back to defaults", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, "/work/.star/config.toml", out.Path)
		assert.True(t, manager.InitLocalCalled)
	})
}
