// Package vizweb is a read-only HTTP/WebSocket view over a fibre runtime's
// committed tree, built on chi for routing and gorilla/websocket for live
// push of a one-way export feed.
package vizweb

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fibretree/fibre"
)

// Server is a fibre.TickObserver that serves the current tree snapshot over
// HTTP and pushes a fresh snapshot to every connected WebSocket client on
// each committed tick.
type Server struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*websocket.Conn]string
	snapshot fibre.Snapshot
}

// New constructs a Server. Call Handler to obtain the http.Handler to mount.
func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]string),
	}
}

// Handler returns the chi router serving /snapshot (current tree as JSON)
// and /live (WebSocket push of every subsequent snapshot).
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/live", s.handleLive)
	return r
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.snapshot
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.log.Warn("vizweb: encode snapshot", "error", err)
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("vizweb: upgrade failed", "error", err)
		return
	}

	clientID := uuid.NewString()
	s.mu.Lock()
	s.clients[conn] = clientID
	snap := s.snapshot
	s.mu.Unlock()
	s.log.Debug("vizweb: client connected", "client", clientID)

	if err := conn.WriteJSON(snap); err != nil {
		s.dropClient(conn)
		return
	}

	// Drain and discard inbound frames so pings are answered until the
	// client disconnects — this feed is one-way.
	go func() {
		defer s.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	id := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	s.log.Debug("vizweb: client disconnected", "client", id)
	conn.Close()
}

// OnTickCommitted implements fibre.TickObserver: it exports the tree and
// broadcasts the snapshot to every live WebSocket client.
func (s *Server) OnTickCommitted(tick uint64, root *fibre.Fibre) {
	snap := fibre.Export(root)

	s.mu.Lock()
	s.snapshot = snap
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.WriteJSON(snap); err != nil {
			s.dropClient(c)
		}
	}
}
