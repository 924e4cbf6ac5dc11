// Package server streams generated meshes to browser clients over websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"planetgen/config"
	"planetgen/core"
)

// MeshData is one mesh frame as sent to clients. Positions, colors and
// normals are flat per-vertex arrays (3, 4 and 3 floats per vertex).
type MeshData struct {
	Type      string     `json:"type"`
	Mesh      int        `json:"mesh"`
	Name      string     `json:"name"`
	Kind      core.Kind  `json:"kind"`
	Seed      int64      `json:"seed"`
	Positions []float32  `json:"positions"`
	Colors    []float32  `json:"colors"`
	Normals   []float32  `json:"normals"`
	Indices   []uint32   `json:"indices"`
	Stats     core.Stats `json:"stats"`
}

// Request is a client message asking to rebuild one mesh of the scene.
type Request struct {
	Mesh   int    `json:"mesh"`
	Preset string `json:"preset,omitempty"`
	Seed   *int64 `json:"seed,omitempty"`
	Depth  *int   `json:"depth,omitempty"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// NewMeshData flattens m for the wire.
func NewMeshData(index int, name string, seed int64, m *core.Mesh) MeshData {
	d := MeshData{
		Type:      "mesh_update",
		Mesh:      index,
		Name:      name,
		Kind:      m.Kind,
		Seed:      seed,
		Positions: make([]float32, 0, 3*len(m.Vertices)),
		Colors:    make([]float32, 0, 4*len(m.Vertices)),
		Normals:   make([]float32, 0, 3*len(m.Vertices)),
		Indices:   append([]uint32(nil), m.Indices...),
		Stats:     m.Stats,
	}
	for _, v := range m.Vertices {
		d.Positions = append(d.Positions, v.Position[:]...)
		d.Colors = append(d.Colors, v.Color[:]...)
		d.Normals = append(d.Normals, v.Normal[:]...)
	}
	return d
}

// Server owns the current scene and the connected clients.
type Server struct {
	logger   *log.Logger
	gen      *core.Generator
	upgrader websocket.Upgrader
	interval time.Duration
	workers  int

	mu     sync.RWMutex
	names  []string
	params []core.Params
	frames []MeshData
	rng    *rand.Rand

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
}

// New generates the scene described by settings. A nil logger discards output.
func New(ctx context.Context, settings *config.Settings, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	params, err := settings.Params()
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger: logger,
		gen:    core.NewGenerator(logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		interval: time.Duration(settings.Server.UpdateIntervalMs) * time.Millisecond,
		workers:  settings.Workers,
		params:   params,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
	for _, m := range settings.Meshes {
		s.names = append(s.names, m.Name)
	}

	meshes, err := s.gen.GenerateAll(ctx, params, s.workers)
	if err != nil {
		return nil, fmt.Errorf("initial scene: %w", err)
	}
	s.frames = make([]MeshData, len(meshes))
	for i, m := range meshes {
		s.frames[i] = NewMeshData(i, s.names[i], params[i].Noise.Seed, m)
	}
	logger.Printf("Scene ready with %d meshes", len(meshes))
	return s, nil
}

// Handler serves the websocket endpoint at /ws and a JSON snapshot at /mesh.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/mesh", s.serveSnapshot)
	return mux
}

// Frames returns a copy of the current scene frames.
func (s *Server) Frames() []MeshData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MeshData(nil), s.frames...)
}

// ListenAndServe runs the HTTP server and the update loop until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go s.updateLoop(ctx)
	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stopped <- srv.Shutdown(shutdown)
	}()

	s.logger.Printf("Server starting on http://localhost%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-stopped; err != nil {
		s.logger.Println("Server shutdown error:", err)
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Println("Server stopped")
	return nil
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Frames()); err != nil {
		s.logger.Println("Snapshot encode error:", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	// Send the whole scene first
	for _, frame := range s.Frames() {
		if err := s.send(conn, frame); err != nil {
			s.logger.Println("WebSocket write error:", err)
			return
		}
	}

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Println("WebSocket read error:", err)
			}
			return
		}

		frame, err := s.Regenerate(req)
		if err != nil {
			s.logger.Printf("Regenerate mesh %d: %v", req.Mesh, err)
			if err := s.sendError(conn, err); err != nil {
				return
			}
			continue
		}
		s.broadcast(frame)
	}
}

// Regenerate rebuilds one mesh of the scene from req and stores the result.
func (s *Server) Regenerate(req Request) (MeshData, error) {
	s.mu.RLock()
	if req.Mesh < 0 || req.Mesh >= len(s.params) {
		s.mu.RUnlock()
		return MeshData{}, fmt.Errorf("no mesh %d", req.Mesh)
	}
	p := s.params[req.Mesh]
	name := s.names[req.Mesh]
	s.mu.RUnlock()

	seed := p.Noise.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	if req.Preset != "" {
		preset, ok := core.Preset(req.Preset, seed)
		if !ok {
			return MeshData{}, fmt.Errorf("unknown preset %q", req.Preset)
		}
		p = preset
	} else if req.Seed != nil {
		p.Noise.Seed = seed
	}
	if req.Depth != nil {
		p.Depth = *req.Depth
	}

	m, err := s.gen.Generate(p)
	if err != nil {
		return MeshData{}, err
	}
	frame := NewMeshData(req.Mesh, name, p.Noise.Seed, m)

	s.mu.Lock()
	s.params[req.Mesh] = p
	s.frames[req.Mesh] = frame
	s.mu.Unlock()
	return frame, nil
}

// updateLoop re-rolls the first terrain mesh with a fresh random seed on
// every tick.
func (s *Server) updateLoop(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		idx := s.terrainIndex()
		if idx < 0 {
			return
		}
		seed := s.rng.Int63()
		frameStart := time.Now()
		frame, err := s.Regenerate(Request{Mesh: idx, Preset: "random", Seed: &seed})
		if err != nil {
			s.logger.Printf("Update loop: %v", err)
			continue
		}
		s.broadcast(frame)
		if total := time.Since(frameStart); total > s.interval {
			s.logger.Printf("SLOW FRAME: %v for mesh %d", total, idx)
		}
	}
}

func (s *Server) terrainIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, p := range s.params {
		if p.Kind == core.KindTerrain || p.Kind == "" {
			return i
		}
	}
	return -1
}

func (s *Server) send(conn *websocket.Conn, v any) error {
	s.clientsMu.RLock()
	mutex, ok := s.clients[conn]
	s.clientsMu.RUnlock()
	if !ok {
		return nil
	}

	mutex.Lock()
	defer mutex.Unlock()
	return conn.WriteJSON(v)
}

// sendError reports err to one client. A failed write is logged and returned.
func (s *Server) sendError(conn *websocket.Conn, err error) error {
	if werr := s.send(conn, errorMessage{Type: "error", Error: err.Error()}); werr != nil {
		s.logger.Println("WebSocket error frame write error:", werr)
		return werr
	}
	return nil
}

func (s *Server) broadcast(frame MeshData) {
	s.clientsMu.RLock()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range s.clients {
		mutex.Lock()
		err := client.WriteJSON(frame)
		mutex.Unlock()
		if err != nil {
			s.logger.Println("WebSocket write error:", err)
			client.Close()
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	s.clientsMu.RUnlock()

	// Remove failed clients
	if len(clientsToRemove) > 0 {
		s.clientsMu.Lock()
		for _, client := range clientsToRemove {
			delete(s.clients, client)
		}
		s.clientsMu.Unlock()
	}
}
