package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debarment_service/internal/config"
	"debarment_service/internal/logger"
)

var _ Launcher = (*ChromeLauncher)(nil)
var _ Page = (*chromePage)(nil)

func TestNewProfile_UniqueDirsRemovedOnClose(t *testing.T) {
	base := t.TempDir()

	p1, err := newProfile(base)
	require.NoError(t, err)
	p2, err := newProfile(base)
	require.NoError(t, err)

	assert.NotEqual(t, p1.root, p2.root)
	for _, dir := range []string{p1.userData, p1.dataPath, p1.diskCache} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, p1.root, filepath.Dir(dir))
	}

	require.NoError(t, p1.remove())
	_, err = os.Stat(p1.root)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(p2.root)
	assert.NoError(t, err, "removing one profile must not touch another")
}

func TestChromePage_CloseIsIdempotent(t *testing.T) {
	prof, err := newProfile(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	page := &chromePage{
		ctx:         ctx,
		cancelTab:   func() { calls++; cancel() },
		cancelAlloc: func() { calls++ },
		prof:        prof,
	}

	require.NoError(t, page.Close())
	require.NoError(t, page.Close())

	assert.Equal(t, 2, calls)
	_, err = os.Stat(prof.root)
	assert.True(t, os.IsNotExist(err))
}

func TestLaunch_MissingBinaryCleansUp(t *testing.T) {
	base := t.TempDir()
	l := NewChromeLauncher(config.Browser{
		ChromePath: filepath.Join(base, "no-such-chrome"),
		TempDir:    base,
	}, logger.Discard())

	page, err := l.Launch(context.Background())
	require.Error(t, err)
	assert.Nil(t, page)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "profile directories must be removed when launch fails")
}
