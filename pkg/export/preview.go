package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vanderheijden86/stepwise/pkg/loader"
	"github.com/vanderheijden86/stepwise/pkg/model"
)

// PreviewServer serves a live view of one definition file: an HTML page
// with the progress strip, the JSON snapshot and the SVG and PNG strips.
// Browsers reload whenever the file changes on disk.
type PreviewServer struct {
	path   string
	active *int
	hub    *LiveReloadHub

	mu      sync.RWMutex
	def     *model.Definition
	loadErr error
}

// NewPreviewServer loads path and prepares its watcher. active overrides
// the definition's starting step when non-nil.
func NewPreviewServer(path string, active *int) (*PreviewServer, error) {
	def, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	s := &PreviewServer{path: def.Path, active: active, def: def}
	hub, err := NewLiveReloadHub(def.Path, s.Reload)
	if err != nil {
		return nil, err
	}
	s.hub = hub
	return s, nil
}

// Reload re-reads the definition. On failure the last good definition is
// kept and the error is shown on the page.
func (s *PreviewServer) Reload() error {
	def, err := loader.Load(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Printf("preview: reload %s: %v", s.path, err)
		s.loadErr = err
		return err
	}
	s.def = def
	s.loadErr = nil
	log.Printf("preview: reloaded %d steps from %s", len(def.Steps), s.path)
	return nil
}

// Definition returns the current definition and the last reload error.
func (s *PreviewServer) Definition() (*model.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.def, s.loadErr
}

// Handler returns the server's routes.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/state.json", s.handleState)
	mux.HandleFunc("/strip.svg", s.handleSVG)
	mux.HandleFunc("/strip.png", s.handlePNG)
	mux.Handle("/events", s.hub.SSEHandler())
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *PreviewServer) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.hub.Start(); err != nil {
		return err
	}
	defer s.hub.Stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("preview: serving %s on %s", s.path, addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("preview server: %w", err)
	case <-ctx.Done():
	}

	// Open event streams never finish on their own.
	s.hub.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the watcher when ListenAndServe was never called.
func (s *PreviewServer) Close() {
	s.hub.Stop()
}

// snapshot takes the current snapshot, honouring an ?active=N override.
func (s *PreviewServer) snapshot(r *http.Request) (Snapshot, error) {
	def, _ := s.Definition()
	active := s.active
	if q := r.URL.Query().Get("active"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return Snapshot{}, fmt.Errorf("invalid active step %q", q)
		}
		active = &n
	}
	return NewSnapshot(def, active), nil
}

func (s *PreviewServer) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := WriteJSON(w, snap); err != nil {
		log.Printf("preview: %v", err)
	}
}

func (s *PreviewServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := WriteSVG(w, snap); err != nil {
		log.Printf("preview: %v", err)
	}
}

func (s *PreviewServer) handlePNG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, snap); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

type previewPage struct {
	Snapshot Snapshot
	Strip    template.HTML
	Error    string
	Script   template.HTML
	Revision uint64
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Snapshot.Title}}</title>
<style>
body { background: #282a36; color: #f8f8f2; font-family: sans-serif; margin: 2em; }
.error { background: #ff5555; color: #282a36; padding: .5em 1em; }
li[data-state="completed"] { color: #50fa7b; }
li[data-state="active"] { color: #8be9fd; font-weight: bold; }
li[data-state="loading"] { color: #f1fa8c; }
li[data-state="inactive"] { color: #6272a4; }
li[aria-disabled="true"] { text-decoration: line-through; }
</style>
</head>
<body data-revision="{{.Revision}}">
<h1>{{.Snapshot.Title}}</h1>
{{if .Error}}<p class="error">Reload failed: {{.Error}}</p>{{end}}
<p>{{.Snapshot.Completed}} of {{.Snapshot.Total}} steps completed{{if .Snapshot.Controlled}} (controlled){{end}}</p>
{{.Strip}}
<ol role="tablist">
{{range .Snapshot.Steps}}<li data-state="{{.State}}"{{if .Disabled}} aria-disabled="true"{{end}}{{if .Selected}} aria-selected="true"{{end}}>{{.Title}}{{if .Description}}: {{.Description}}{{end}}</li>
{{end}}</ol>
{{.Script}}
</body>
</html>
`))

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var strip bytes.Buffer
	if err := WriteSVG(&strip, snap); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := previewPage{
		Snapshot: snap,
		Strip:    template.HTML(strip.String()),
		Script:   template.HTML(LiveReloadScript),
		Revision: s.hub.Revision(),
	}
	if _, loadErr := s.Definition(); loadErr != nil {
		page.Error = loadErr.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, page); err != nil {
		log.Printf("preview: rendering page: %v", err)
	}
}
