package web

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net"
	"net/http"
	"time"

	ds "github.com/starfederation/datastar-go/datastar"
	"serialplot/events"
	"serialplot/models"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

type Renderer interface {
	Templates() *template.Template
	Handlers() map[string]func(w http.ResponseWriter, r *http.Request)
	Data(clientID string) map[string]interface{}
	OnFrame(sse *ds.ServerSentEventGenerator, frame *models.Frame, clientID string) error
}

type Server struct {
	renderer Renderer
	hub      *events.EventHub
	handler  *http.ServeMux
}

func NewServer(renderer Renderer, hub *events.EventHub) *Server {
	s := &Server{
		renderer: renderer,
		hub:      hub,
	}

	handler := http.NewServeMux()
	handler.HandleFunc("GET /{$}", s.IndexHandler)
	handler.HandleFunc("GET /frames", s.FramesHandler)
	handler.Handle("GET /static/", http.FileServer(http.FS(Static)))

	for path, uiHandler := range renderer.Handlers() {
		handler.HandleFunc(path, uiHandler)
	}

	s.handler = handler

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("listening on %s …", addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// IndexHandler is the main entrypoint for the UI
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	clientID := getClientID(w, r)
	err := s.renderer.Templates().ExecuteTemplate(w, "index", s.renderer.Data(clientID))
	if err != nil {
		log.Printf("couldn't execute template for index %s", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// FramesHandler streams every published frame to the client. Frames that
// pile up while the client is busy are skipped, only the newest is sent.
func (s *Server) FramesHandler(w http.ResponseWriter, r *http.Request) {
	clientID := getClientID(w, r)
	sse := ds.NewSSE(w, r)

	_, frames, cancel := s.hub.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-frames:
			if !ok {
				return
			}
			event = latest(event, frames)
			if event == nil || event.Frame == nil {
				continue
			}
			if err := s.renderer.OnFrame(sse, event.Frame, clientID); err != nil {
				log.Printf("error sending frame: %s", err)
				return
			}
		}
	}
}

func latest(event *events.Event, frames <-chan *events.Event) *events.Event {
	for {
		select {
		case next, ok := <-frames:
			if !ok {
				return event
			}
			event = next
		default:
			return event
		}
	}
}
