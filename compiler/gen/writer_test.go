package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, WithWorkers(2))
	res := generate(t, cfg, usersTable(), userRolesTable())
	res.Interfaces = append(res.Interfaces, &Interface{Name: "Mapper", TypeParams: []*TypeParam{{Name: "T"}}})

	t.Run("Render", func(t *testing.T) {
		files, err := NewWriter(cfg).Render(context.Background(), res)
		require.NoError(t, err)
		var names []string
		for _, f := range files {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{
			"UserMapper.xml",
			"UserRoleMapper.xml",
			"mapper.go",
			"user.go",
			"user_mapper.go",
			"user_role.go",
			"user_role_mapper.go",
		}, names)
	})

	t.Run("Write", func(t *testing.T) {
		w := NewWriter(cfg)
		require.NoError(t, w.Write(context.Background(), res))
		assert.Equal(t, 7, w.Metrics().FilesGenerated)
		assert.Positive(t, w.Metrics().TotalBytes)

		data, err := os.ReadFile(filepath.Join(cfg.Target, "user_mapper.go"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "type UserMapper interface")
		_, err = os.Stat(filepath.Join(cfg.Target, "UserMapper.xml"))
		assert.NoError(t, err)
	})

	t.Run("NoTarget", func(t *testing.T) {
		err := NewWriter(&Config{}).Write(context.Background(), res)
		assert.True(t, IsConfigError(err))
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewWriter(cfg).Render(ctx, res)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
