package defaults

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports which services need a configuration reload because
// their defaults file changed on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	paths   map[string]string
	changes chan string
	errs    chan error
	done    chan struct{}
}

// NewWatcher watches the defaults files in the given map of service ID
// to file path. Whenever one of the files is written or replaced, the
// owning service's ID is delivered on Changes.
//
// /etc/default files are frequently replaced atomically (write to a
// temp file, then rename), so the parent directory is watched rather
// than the files themselves.
func NewWatcher(defaultsPathsByServiceID map[string]string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	paths := make(map[string]string, len(defaultsPathsByServiceID))
	dirs := make(map[string]struct{})
	for serviceID, path := range defaultsPathsByServiceID {
		cleaned := filepath.Clean(path)
		paths[cleaned] = serviceID
		dirs[filepath.Dir(cleaned)] = struct{}{}
	}

	for dir := range dirs {
		err := fsWatcher.Add(dir)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	o := &Watcher{
		watcher: fsWatcher,
		paths:   paths,
		changes: make(chan string),
		errs:    make(chan error),
		done:    make(chan struct{}),
	}

	go o.loop()

	return o, nil
}

// Changes delivers the ID of each service whose defaults file changed.
func (o *Watcher) Changes() <-chan string {
	return o.changes
}

// Errors delivers watcher failures.
func (o *Watcher) Errors() <-chan error {
	return o.errs
}

// Close stops watching and closes the Changes and Errors channels.
func (o *Watcher) Close() error {
	close(o.done)

	return o.watcher.Close()
}

func (o *Watcher) loop() {
	defer close(o.changes)
	defer close(o.errs)

	for {
		select {
		case <-o.done:
			return
		case event, ok := <-o.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			serviceID, watched := o.paths[filepath.Clean(event.Name)]
			if !watched {
				continue
			}

			select {
			case o.changes <- serviceID:
			case <-o.done:
				return
			}
		case err, ok := <-o.watcher.Errors:
			if !ok {
				return
			}

			select {
			case o.errs <- err:
			case <-o.done:
				return
			}
		}
	}
}
