// Package server exposes map generation over HTTP and streams stage
// progress to websocket clients.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"maps"
	"net/http"
	"sync"
	"sync/atomic"

	"mapgen/pkg/core"
	"mapgen/pkg/engine"
)

// Progress is the payload of a "progress" event.
type Progress struct {
	Seed     string  `json:"seed"`
	Stage    string  `json:"stage"`
	Fraction float64 `json:"fraction"`
}

// Server runs one generation at a time in the background and keeps the
// summary of the latest finished map.
type Server struct {
	defaults map[string]string
	hub      *Hub

	busy   atomic.Bool
	latest atomic.Pointer[engine.Summary]
	jobs   sync.WaitGroup
}

// New returns a server whose requests start from defaults, a FromMap-style
// key/value set. Query parameters override it per request.
func New(defaults map[string]string, hub *Hub) *Server {
	return &Server{defaults: maps.Clone(defaults), hub: hub}
}

// Handler routes the API and the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/params", s.handleParams)
	mux.HandleFunc("GET /ws", s.hub.ServeWs)
	return mux
}

// Wait blocks until the running generation, if any, has finished.
func (s *Server) Wait() { s.jobs.Wait() }

// Latest returns the summary of the last finished map.
func (s *Server) Latest() (engine.Summary, bool) {
	if p := s.latest.Load(); p != nil {
		return *p, true
	}
	return engine.Summary{}, false
}

func (s *Server) config(r *http.Request) engine.Config {
	values := maps.Clone(s.defaults)
	if values == nil {
		values = map[string]string{}
	}
	for key, v := range r.URL.Query() {
		if len(v) > 0 {
			values[key] = v[0]
		}
	}
	return engine.FromMap(values)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	e, err := engine.New(s.config(r))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	if !s.busy.CompareAndSwap(false, true) {
		http.Error(w, "a map is already being generated", http.StatusConflict)
		return
	}
	cfg := e.Config()
	e.OnProgress(func(p engine.Progress) {
		s.publish("progress", Progress{Seed: cfg.Seed, Stage: string(p.Stage), Fraction: p.Fraction()})
	})

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		defer s.busy.Store(false)
		res, err := e.Generate()
		if err != nil {
			log.Printf("generate %q: %v", cfg.Seed, err)
			s.publish("error", err.Error())
			return
		}
		sum := engine.Summarize(res)
		s.latest.Store(&sum)
		s.publish("done", sum)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"seed": cfg.Seed, "template": cfg.HeightmapTemplate})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.Latest()
	if !ok {
		http.Error(w, "no map generated yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.config(r).Parameters())
}

func (s *Server) publish(kind string, payload any) {
	if err := s.hub.Publish(kind, payload); err != nil {
		log.Printf("publish %s: %v", kind, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
