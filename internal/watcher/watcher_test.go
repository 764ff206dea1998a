package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherTriggersOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte(""), 0o644))

	fired := make(chan struct{}, 1)
	w, err := New(root, 50*time.Millisecond, 600, nil, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before mutating the tree.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("import os\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()

	var runs atomic.Int32
	fired := make(chan struct{}, 16)
	w, err := New(root, 150*time.Millisecond, 600, nil, func(context.Context) {
		runs.Add(1)
		fired <- struct{}{}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "burst.py"), []byte("# v\n"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired")
	}

	// The burst collapsed into a single run.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestRelevant(t *testing.T) {
	w := &Watcher{exclude: map[string]bool{"node_modules": true}}

	assert.True(t, w.relevant(fsnotify.Event{Name: "/p/a.py", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/p/newdir", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/p/node_modules", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/p/a.swp", Op: fsnotify.Write}))
}
