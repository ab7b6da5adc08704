package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/akreft/embedmark/pipeline"
)

const rebuildDebounce = 500 * time.Millisecond

// Server previews a pipeline build with live reload.
type Server struct {
	builder *pipeline.Builder
	hub     *hub
}

// New returns a preview server for the given builder.
func New(builder *pipeline.Builder) *Server {
	return &Server{
		builder: builder,
		hub:     newHub(),
	}
}

// Run builds once, starts watching the content directory and serves the
// output directory on addr. It blocks until the HTTP server fails.
func (s *Server) Run(addr string) error {
	if _, err := s.builder.Build(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, s.builder.ContentDir()); err != nil {
		return err
	}
	go s.watchLoop(watcher)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.serveWS)
	mux.Handle("/", injectReloadScript(http.FileServer(http.Dir(s.builder.OutputDir()))))

	log.Printf("serving %s on http://localhost%s", s.builder.OutputDir(), addr)
	return http.ListenAndServe(addr, mux)
}

// watchTree registers dir and every subdirectory with the watcher. fsnotify
// watches are not recursive.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("could not watch %s: %w", path, err)
			}
		}
		return nil
	})
}

func (s *Server) watchLoop(watcher *fsnotify.Watcher) {
	var lastBuild time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastBuild) < rebuildDebounce {
				continue
			}
			// Give editors a moment to finish their save dance.
			time.Sleep(100 * time.Millisecond)

			log.Printf("change in %s, rebuilding", event.Name)
			if _, err := s.builder.Build(); err != nil {
				log.Printf("rebuild failed: %v", err)
			} else {
				s.hub.broadcast([]byte("reload"))
			}
			lastBuild = time.Now()

			// New directories need watches of their own.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// injectReloadScript appends the live-reload client to served HTML pages.
func injectReloadScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		if !strings.HasSuffix(r.URL.Path, ".html") && !strings.HasSuffix(r.URL.Path, "/") {
			next.ServeHTTP(w, r)
			return
		}

		rec := &recordingWriter{header: make(http.Header), status: http.StatusOK}
		next.ServeHTTP(rec, r)

		for key, values := range rec.header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		if rec.status != http.StatusOK {
			w.WriteHeader(rec.status)
			_, _ = w.Write(rec.body.Bytes())
			return
		}

		// Built pages are body fragments without a closing tag, so the
		// script is appended rather than spliced.
		page := append(rec.body.Bytes(), []byte(reloadScript)...)
		w.Header().Set("Content-Length", fmt.Sprint(len(page)))
		w.WriteHeader(rec.status)
		_, _ = w.Write(page)
	})
}

type recordingWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (r *recordingWriter) Header() http.Header {
	return r.header
}

func (r *recordingWriter) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *recordingWriter) WriteHeader(status int) {
	r.status = status
}

const reloadScript = `
<script>
  (function() {
    var socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
  })();
</script>
`
