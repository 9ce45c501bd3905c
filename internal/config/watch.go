package config

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Live wraps a Config behind an RWMutex so the active profile and other
// settings can be hot-reloaded from disk without interrupting in-flight
// chunking requests.
type Live struct {
	mu      sync.RWMutex
	cfg     *Config
	rootDir string
	watcher *fsnotify.Watcher
}

// NewLive loads the initial configuration and returns a Live handle.
func NewLive(rootDir string) (*Live, error) {
	cfg, err := LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, err
	}
	return &Live{cfg: cfg, rootDir: rootDir}, nil
}

// Get returns the current configuration snapshot.
func (l *Live) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Watch starts an fsnotify watch on the config directory and reloads on any
// write/create event. Reload failures are logged and the previous
// configuration is kept in place, since a malformed file on disk should
// never take a running service down.
func (l *Live) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	l.watcher = w

	configDir := l.rootDir + "/.chunk"
	if err := w.Add(configDir); err != nil {
		w.Close()
		return err
	}

	go l.watchLoop()
	return nil
}

func (l *Live) watchLoop() {
	for {
		select {
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.reload()
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watcher error: %v", err)
		}
	}
}

func (l *Live) reload() {
	cfg, err := LoadConfigFromDir(l.rootDir)
	if err != nil {
		log.Printf("config: reload failed, keeping previous configuration: %v", err)
		return
	}
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
	log.Printf("config: reloaded active profile %q", cfg.Profile)
}

// Close stops the watcher, if running.
func (l *Live) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}
