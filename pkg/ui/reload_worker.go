package ui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/stepwise/pkg/loader"
	"github.com/vanderheijden86/stepwise/pkg/model"
)

// WorkerState represents the current state of the reload worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is loading the definition.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerStopped:
		return "stopped"
	default:
		return fmt.Sprintf("WorkerState(%d)", int(s))
	}
}

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string    // "read", "load"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Consecutive failures including this one
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// DefinitionReloadedMsg is sent to the UI when the watched definition
// changed and loaded cleanly.
type DefinitionReloadedMsg struct {
	Definition *model.Definition
}

// DefinitionErrorMsg is sent to the UI when reloading fails.
type DefinitionErrorMsg struct {
	Err         error
	Recoverable bool // True if we expect to recover on next file change
}

// WorkerConfig configures the ReloadWorker.
type WorkerConfig struct {
	Path          string
	DebounceDelay time.Duration
	Program       *tea.Program

	// Send overrides Program.Send, mainly for tests.
	Send func(tea.Msg)
}

// ReloadWorker watches a definition file and reloads it off the UI thread.
// Bursts of file events are coalesced with a debounce timer, and unchanged
// content is skipped by hash.
type ReloadWorker struct {
	path          string
	debounceDelay time.Duration
	send          func(tea.Msg)

	mu         sync.RWMutex
	state      WorkerState
	dirty      bool // True if a change came in while processing
	started    bool
	def        *model.Definition
	lastHash   string
	lastError  *WorkerError
	errorCount int

	watcher *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReloadWorker creates a worker for cfg.Path. An empty path yields a
// worker that never reloads.
func NewReloadWorker(cfg WorkerConfig) (*ReloadWorker, error) {
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = 200 * time.Millisecond
	}

	send := cfg.Send
	if send == nil && cfg.Program != nil {
		send = cfg.Program.Send
	}

	path := cfg.Path
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &ReloadWorker{
		path:          path,
		debounceDelay: cfg.DebounceDelay,
		send:          send,
		state:         WorkerIdle,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	if path != "" {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("create fsnotify watcher: %w", err)
		}
		w.watcher = fw
	}

	return w, nil
}

// Start begins watching the definition's directory. Editors often replace
// files instead of writing them, so the directory is watched and events
// are filtered by name. Start is idempotent.
func (w *ReloadWorker) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if w.watcher == nil {
		close(w.done)
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch definition dir: %w", err)
	}
	go w.watchLoop()
	return nil
}

// Stop halts the worker and closes the watcher. Stop is idempotent.
func (w *ReloadWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	w.mu.Unlock()

	w.cancel()
	if w.watcher != nil {
		w.watcher.Close()
	}

	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// TriggerRefresh reloads the definition now.
// Has no effect if the worker is stopped; marks dirty if already processing.
func (w *ReloadWorker) TriggerRefresh() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if w.state == WorkerProcessing {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	go w.process()
}

// Definition returns the last successfully loaded definition (may be nil).
func (w *ReloadWorker) Definition() *model.Definition {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.def
}

// State returns the current worker state.
func (w *ReloadWorker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// LastError returns the most recent error (nil if last operation succeeded).
func (w *ReloadWorker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// LastHash returns the content hash of the last loaded definition.
func (w *ReloadWorker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// ResetHash forces the next reload to deliver even unchanged content.
func (w *ReloadWorker) ResetHash() {
	w.mu.Lock()
	w.lastHash = ""
	w.mu.Unlock()
}

func (w *ReloadWorker) watchLoop() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounceDelay)
			} else {
				timer.Reset(w.debounceDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.process()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("reload: watcher error: %v", err)
		}
	}
}

// process loads the definition and notifies the UI.
func (w *ReloadWorker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	def := w.load()

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if def != nil {
		w.def = def
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	w.mu.Unlock()

	if def != nil {
		w.emit(DefinitionReloadedMsg{Definition: def})
	}

	if wasDirty {
		go w.process()
	}
}

// load reads and parses the definition. It returns nil when the path is
// empty, the content is unchanged, or loading fails.
func (w *ReloadWorker) load() *model.Definition {
	if w.path == "" {
		return nil
	}

	start := time.Now()

	var data []byte
	if werr := w.safeCompute("read", func() error {
		var err error
		data, err = os.ReadFile(w.path)
		return err
	}); werr != nil {
		w.fail(werr)
		return nil
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	w.mu.RLock()
	lastHash := w.lastHash
	w.mu.RUnlock()
	if hash == lastHash {
		log.Printf("reload: %s unchanged (hash=%s), skipping", w.path, hashPrefix(hash))
		w.recordError(nil)
		return nil
	}

	var def *model.Definition
	if werr := w.safeCompute("load", func() error {
		var err error
		def, err = loader.Parse(data, w.path)
		return err
	}); werr != nil {
		w.fail(werr)
		return nil
	}

	w.recordError(nil)
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	log.Printf("reload: loaded %d steps from %s in %v (hash=%s)", len(def.Steps), w.path, time.Since(start), hashPrefix(hash))
	return def
}

func (w *ReloadWorker) fail(werr *WorkerError) {
	log.Printf("reload: %v", werr)
	w.recordError(werr)
	w.emit(DefinitionErrorMsg{Err: *werr, Recoverable: true})
}

func (w *ReloadWorker) emit(msg tea.Msg) {
	if w.send != nil {
		w.send(msg)
	}
}

// safeCompute executes fn and recovers from any panics.
func (w *ReloadWorker) safeCompute(phase string, fn func() error) *WorkerError {
	var result *WorkerError
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = &WorkerError{
					Phase: phase,
					Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
					Time:  time.Now(),
				}
			}
		}()
		if err := fn(); err != nil {
			result = &WorkerError{
				Phase: phase,
				Cause: err,
				Time:  time.Now(),
			}
		}
	}()
	return result
}

func (w *ReloadWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
	w.mu.Unlock()
}

// hashPrefix returns up to 16 characters of hash for logging.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
