package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keychord/internal/input/keymap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// replaceFile swaps in new content atomically, the way editors save.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	writeFile(t, tmp, content)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startWatcher(t *testing.T, userFile string, opts ...WatcherOption) (*Watcher, *keymap.Store) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DefaultsFile = filepath.Join(filepath.Dir(userFile), "none.json")
	cfg.UserFile = userFile

	reload := func() (keymap.Sources, error) { return Sources(cfg, nil) }
	src, err := reload()
	if err != nil {
		t.Fatal(err)
	}
	store := keymap.NewStore(keymap.MustBuild(src))

	w, err := NewWatcher(store, reload, append([]WatcherOption{WithDebounce(20 * time.Millisecond)}, opts...)...)
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	if err := w.Add(userFile); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	})
	return w, store
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "keybindings.json")
	writeFile(t, user, `[{"key": "ctrl+s", "command": "file.save"}]`)

	w, store := startWatcher(t, user)
	if got := store.Load().ForCommand("file.save"); len(got) != 1 {
		t.Fatalf("initial table = %v", got)
	}
	before := store.Version()

	replaceFile(t, user, `[{"key": "ctrl+s", "command": "file.saveAll"}]`)
	waitFor(t, "rebuild", func() bool { return store.Version() > before })

	table := store.Load()
	if len(table.ForCommand("file.saveAll")) != 1 || len(table.ForCommand("file.save")) != 0 {
		t.Errorf("table after reload = %v", table.Entries())
	}
	if w.Reloads() == 0 {
		t.Error("Reloads() should count the rebuild")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "keybindings.json")
	writeFile(t, user, `[]`)

	_, store := startWatcher(t, user)
	before := store.Version()

	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")
	time.Sleep(150 * time.Millisecond)
	if store.Version() != before {
		t.Error("unrelated file should not trigger a rebuild")
	}
}

func TestWatcherReportsRejectedDeclarations(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "keybindings.json")
	writeFile(t, user, `[]`)

	w, store := startWatcher(t, user)
	before := store.Version()

	replaceFile(t, user, `[{"key": "ctrl+", "command": "broken"}, {"key": "f2", "command": "rename"}]`)

	select {
	case err := <-w.Errors():
		if len(keymap.DeclarationErrors(err)) != 1 {
			t.Errorf("error = %v, want one declaration error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
	waitFor(t, "publish", func() bool { return store.Version() > before })
	if len(store.Load().ForCommand("rename")) != 1 {
		t.Error("valid declarations should still be published")
	}
}

func TestWatcherKeepsTableOnReadError(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "keybindings.json")
	writeFile(t, user, `[{"key": "ctrl+s", "command": "file.save"}]`)

	w, store := startWatcher(t, user)
	before := store.Version()

	replaceFile(t, user, `[{"key": `)

	select {
	case err := <-w.Errors():
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("error = %v, want *ParseError", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
	if store.Version() != before {
		t.Error("a failed reload should not publish")
	}
}

func TestWatcherAddDir(t *testing.T) {
	dir := t.TempDir()
	store := keymap.NewStore(nil)
	reloaded := make(chan struct{}, 4)
	w, err := NewWatcher(store, func() (keymap.Sources, error) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
		return keymap.Sources{}, nil
	}, WithDebounce(0))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddDir(dir, "[bad"); err == nil {
		t.Error("malformed pattern should fail")
	}
	if err := w.AddDir(dir, "*.lua"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeFile(t, filepath.Join(dir, "a.lua"), "-- script")
	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload for a matching file")
	}
}

func TestWatcherClosed(t *testing.T) {
	w, err := NewWatcher(keymap.NewStore(nil), func() (keymap.Sources, error) { return keymap.Sources{}, nil })
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = w.Run(ctx)
	if err := w.Add(filepath.Join(t.TempDir(), "k.json")); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Add after Run = %v, want ErrWatcherClosed", err)
	}
}
