package store

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"quizGo/config"
)

// FileBackend persists the whole key-value map as one JSON file and watches
// the file's modification time so writes from other processes surface as
// change notifications. This is the closest analogue to the original shared
// storage host.
type FileBackend struct {
	path string
	log  *logrus.Entry

	mu      sync.Mutex
	data    map[string]string
	subs    map[int]func(key string)
	nextSub int
	lastMod time.Time

	done chan struct{}
}

// NewFileBackend loads (or creates) the store file and starts the watcher.
// Close must be called on teardown.
func NewFileBackend(path string, log *logrus.Entry) (*FileBackend, error) {
	f := &FileBackend{
		path: path,
		log:  log,
		data: make(map[string]string),
		subs: make(map[int]func(key string)),
		done: make(chan struct{}),
	}
	f.reload()

	go f.watch()
	return f, nil
}

// Close stops the file watcher.
func (f *FileBackend) Close() {
	close(f.done)
}

func (f *FileBackend) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileBackend) Set(key, value string) error {
	f.mu.Lock()
	f.data[key] = value
	err := f.persist()
	subs := f.snapshotSubs()
	f.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
	return err
}

func (f *FileBackend) Delete(key string) error {
	f.mu.Lock()
	if _, ok := f.data[key]; !ok {
		f.mu.Unlock()
		return nil
	}
	delete(f.data, key)
	err := f.persist()
	subs := f.snapshotSubs()
	f.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
	return err
}

func (f *FileBackend) Subscribe(fn func(key string)) (cancel func()) {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// persist writes the full map atomically via a temp file rename. Caller holds
// the lock.
func (f *FileBackend) persist() error {
	data, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return err
	}
	if info, err := os.Stat(f.path); err == nil {
		f.lastMod = info.ModTime()
	}
	return nil
}

// reload reads the store file from disk, replacing the in-memory map. A
// missing or malformed file degrades to empty.
func (f *FileBackend) reload() {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		f.log.WithField("path", f.path).Warn("malformed store file, ignoring")
		return
	}
	f.data = data
	if info, err := os.Stat(f.path); err == nil {
		f.lastMod = info.ModTime()
	}
}

// watch polls the file's mtime and, when another process has written it,
// reloads and notifies subscribers of every key whose value changed.
func (f *FileBackend) watch() {
	ticker := time.NewTicker(config.FileWatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			info, err := os.Stat(f.path)
			if err != nil || !info.ModTime().After(f.lastModTime()) {
				continue
			}

			f.mu.Lock()
			before := f.data
			f.mu.Unlock()

			f.reload()

			f.mu.Lock()
			changed := diffKeys(before, f.data)
			subs := f.snapshotSubs()
			f.mu.Unlock()

			for _, key := range changed {
				for _, fn := range subs {
					fn(key)
				}
			}
		}
	}
}

func (f *FileBackend) lastModTime() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastMod
}

func (f *FileBackend) snapshotSubs() []func(key string) {
	subs := make([]func(key string), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	return subs
}

func diffKeys(before, after map[string]string) []string {
	var changed []string
	for k, v := range after {
		if before[k] != v {
			changed = append(changed, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			changed = append(changed, k)
		}
	}
	return changed
}
