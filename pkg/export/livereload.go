package export

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// revisionEvent is what browsers receive after the definition file changes.
type revisionEvent struct {
	Revision uint64
	OK       bool
}

// LiveReloadHub watches one definition file and broadcasts a new revision
// to connected browsers over Server-Sent Events. Every change bumps the
// revision, successful or not, so pages can show the reload error.
type LiveReloadHub struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func() error
	debounce time.Duration

	mu       sync.RWMutex
	revision uint64
	lastOK   bool
	subs     map[chan revisionEvent]struct{}
	timer    *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

// NewLiveReloadHub creates a hub for path. onChange, if set, runs before
// the new revision is broadcast; its error marks the revision as failed.
func NewLiveReloadHub(path string, onChange func() error) (*LiveReloadHub, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &LiveReloadHub{
		path:     filepath.Clean(abs),
		watcher:  watcher,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		lastOK:   true,
		subs:     make(map[chan revisionEvent]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start watches the file's directory; editors that save by rename would
// otherwise drop the watch.
func (h *LiveReloadHub) Start() error {
	if err := h.watcher.Add(filepath.Dir(h.path)); err != nil {
		return fmt.Errorf("watch definition dir: %w", err)
	}
	go h.watchLoop()
	return nil
}

// Stop ends the watch and closes every event stream.
func (h *LiveReloadHub) Stop() {
	h.cancel()
	h.watcher.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
	}
	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
}

// Revision is the number of changes seen since the hub was created.
func (h *LiveReloadHub) Revision() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revision
}

// ClientCount returns the number of open event streams.
func (h *LiveReloadHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *LiveReloadHub) watchLoop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != h.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			h.schedule()

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("preview: watcher: %v", err)
		}
	}
}

// schedule coalesces a burst of writes into one revision.
func (h *LiveReloadHub) schedule() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.debounce, h.bump)
}

func (h *LiveReloadHub) bump() {
	if h.ctx.Err() != nil {
		return
	}
	ok := true
	if h.onChange != nil {
		ok = h.onChange() == nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.revision++
	h.lastOK = ok
	ev := revisionEvent{Revision: h.revision, OK: ok}
	for ch := range h.subs {
		// Keep only the newest revision for slow readers.
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}

func (h *LiveReloadHub) subscribe() (chan revisionEvent, revisionEvent) {
	ch := make(chan revisionEvent, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
	return ch, revisionEvent{Revision: h.revision, OK: h.lastOK}
}

func (h *LiveReloadHub) unsubscribe(ch chan revisionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, ch)
}

// SSEHandler streams a "hello" event with the current revision, then a
// "definition" event per change.
func (h *LiveReloadHub) SSEHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")

		ch, current := h.subscribe()
		defer h.unsubscribe(ch)

		writeRevision(w, "hello", current)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, open := <-ch:
				if !open {
					return
				}
				writeRevision(w, "definition", ev)
				flusher.Flush()
			}
		}
	}
}

func writeRevision(w http.ResponseWriter, name string, ev revisionEvent) {
	fmt.Fprintf(w, "event: %s\nid: %d\ndata: {\"revision\":%d,\"ok\":%t}\n\n", name, ev.Revision, ev.Revision, ev.OK)
}

// LiveReloadScript reloads the page once the server reports a revision
// newer than the one the page was rendered from. It expects the body to
// carry data-revision.
const LiveReloadScript = `<script>
(function() {
  if (!window.EventSource) return;
  var seen = Number(document.body.dataset.revision || 0);
  var delay = 500;

  function onRevision(e) {
    var rev = JSON.parse(e.data).revision;
    if (rev > seen) { location.reload(); }
  }

  function open() {
    var src = new EventSource('/events');
    src.addEventListener('hello', function(e) { delay = 500; onRevision(e); });
    src.addEventListener('definition', onRevision);
    src.onerror = function() {
      src.close();
      setTimeout(open, delay);
      delay = Math.min(delay * 2, 15000);
    };
  }

  open();
})();
</script>`
