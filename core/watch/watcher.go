package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"multipiste/core/multitrack"

	"github.com/fsnotify/fsnotify"
)

// Op 曲目变化类型
type Op string

const (
	Added   Op = "added"
	Removed Op = "removed"
)

// Event 曲库根目录下直接子项的变化
type Event struct {
	Root  string
	Track string
	Op    Op
}

// Watcher 监听一个或多个曲库根目录
type Watcher struct {
	fsw   *fsnotify.Watcher
	roots map[string]bool
}

// New 创建 Watcher 并注册所有根目录
func New(roots ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, roots: make(map[string]bool, len(roots))}
	for _, root := range roots {
		root = filepath.Clean(root)
		if err := fsw.Add(root); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
		w.roots[root] = true
	}
	return w, nil
}

// Run 分发事件直到 ctx 结束或底层 watcher 关闭
func (w *Watcher) Run(ctx context.Context, handle func(Event)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if e, ok := w.translate(ev); ok {
				handle(e)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}

// Close 释放 inotify 资源
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	root := filepath.Dir(ev.Name)
	if !w.roots[root] {
		return Event{}, false
	}
	track := filepath.Base(ev.Name)
	if track == multitrack.OSArtifact {
		return Event{}, false
	}

	switch {
	case ev.Has(fsnotify.Create):
		return Event{Root: root, Track: track, Op: Added}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Root: root, Track: track, Op: Removed}, true
	}
	return Event{}, false
}
