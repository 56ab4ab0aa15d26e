package layout_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasdy/softkbd/layout"
	"github.com/dasdy/softkbd/model"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layouts.yaml")

	require.NoError(t, os.WriteFile(path, []byte("layouts:\n  - id: us\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan []*model.Layout, 8)
	done := make(chan error, 1)

	go func() {
		done <- layout.Watch(ctx, path, func(l []*model.Layout) { reloads <- l })
	}()

	var got []*model.Layout

	// The watcher starts asynchronously, so keep touching the file until a
	// reload arrives.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("layouts:\n  - id: de\n  - id: fr\n"), 0o600)

		select {
		case got = <-reloads:
			return true
		case <-time.After(150 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	require.Len(t, got, 2)
	assert.Equal(t, "de", got[0].ID)
	assert.Equal(t, "fr", got[1].ID)

	t.Run("broken files keep the old layouts", func(t *testing.T) {
		// Let reloads from earlier writes settle.
		time.Sleep(300 * time.Millisecond)

		for len(reloads) > 0 {
			<-reloads
		}

		require.NoError(t, os.WriteFile(path, []byte("layouts: ["), 0o600))

		select {
		case l := <-reloads:
			t.Fatalf("unexpected reload with %d layouts", len(l))
		case <-time.After(400 * time.Millisecond):
		}
	})

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := layout.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "layouts.yaml"), func([]*model.Layout) {})

	assert.Error(t, err)
}
