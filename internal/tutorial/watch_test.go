package tutorial_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guidekit/guidekit/internal/tutorial"
)

func collect(t *testing.T, ch <-chan string, d time.Duration) []string {
	t.Helper()
	var got []string
	deadline := time.After(d)
	for {
		select {
		case id, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, id)
		case <-deadline:
			return got
		}
	}
}

func TestWatch_EmitsTutorialIDOnWrite(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := tutorial.NewWatcher(dir, nil).Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "mug_tutorial.json"), []byte("{}"), 0o644))

	got := collect(t, ch, 2*time.Second)
	require.Contains(t, got, "mug")
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := tutorial.NewWatcher(dir, nil).Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	got := collect(t, ch, 500*time.Millisecond)
	require.Empty(t, got)
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := tutorial.NewWatcher(dir, nil).Watch(ctx)
	require.NoError(t, err)

	path := filepath.Join(dir, "mug.yaml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("tutorialId: mug"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	got := collect(t, ch, time.Second)
	require.Equal(t, []string{"mug"}, got)
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := tutorial.NewWatcher(dir, nil).Watch(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel should close")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
