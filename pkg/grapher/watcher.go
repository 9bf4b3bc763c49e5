package grapher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long a scene file must stay quiet after a
// change before it is reloaded.
const DefaultWatchDebounce = 500 * time.Millisecond

// sceneWatcher calls onChange once a watched scene file settles after a
// write. Errors from onChange and from fsnotify go to onError.
type sceneWatcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func() error
	onError  func(error)

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newSceneWatcher(path string, debounce time.Duration, onChange func() error, onError func(error)) (*sceneWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Editors that save by rename replace the inode, so the directory is
	// watched rather than the file.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &sceneWatcher{
		fsw:      fsw,
		path:     path,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *sceneWatcher) Close() {
	w.once.Do(func() { close(w.stop) })
	<-w.stopped
}

func (w *sceneWatcher) matches(name string) bool {
	if filepath.Base(name) != filepath.Base(w.path) {
		return false
	}
	want, err1 := filepath.Abs(w.path)
	got, err2 := filepath.Abs(name)
	return err1 != nil || err2 != nil || want == got
}

func (w *sceneWatcher) report(err error) {
	if err != nil && w.onError != nil {
		w.onError(err)
	}
}

func (w *sceneWatcher) loop() {
	defer close(w.stopped)
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.stop:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if w.onChange != nil {
				w.report(w.onChange())
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}
