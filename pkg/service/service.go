package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egandro/temperature-heatmap/pkg/chart"
	"github.com/egandro/temperature-heatmap/pkg/grid"
	"github.com/egandro/temperature-heatmap/pkg/interaction"
	"github.com/egandro/temperature-heatmap/pkg/metrics"
	"github.com/egandro/temperature-heatmap/pkg/svg"
)

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1024

	maxEventBytes = 4096
)

// Pointer event types.
const (
	EventEnter = "enter"
	EventMove  = "move"
	EventLeave = "leave"
)

// PointerEvent is what the page posts for every pointer transition.
// Attributes, when set, take the attribute-driven path instead of the cell index.
type PointerEvent struct {
	Type       string            `json:"type"`
	Cell       *grid.CellID      `json:"cell,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
}

type session struct {
	ctrl     *interaction.Controller
	lastSeen time.Time
}

// service represents the HTTP service.
type service struct {
	Host        string
	Port        int
	AccessLog   io.Writer
	SessionTTL  time.Duration
	MaxSessions int

	server  *http.Server
	chart   *chart.Chart
	heatmap *svg.Heatmap
	svgDoc  string
	metrics *metrics.Metrics
	clock   clockwork.Clock

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a new service instance serving the given chart. metrics may be nil.
func New(host string, port int, c *chart.Chart, m *metrics.Metrics) (*service, error) {
	doc, err := svg.New(c, svg.ModeStandalone).Generate()
	if err != nil {
		return nil, fmt.Errorf("render heatmap: %w", err)
	}
	return &service{
		Host:        host,
		Port:        port,
		SessionTTL:  DefaultSessionTTL,
		MaxSessions: DefaultMaxSessions,
		chart:       c,
		heatmap:     svg.New(c, svg.ModeInline),
		svgDoc:      doc,
		metrics:     m,
		clock:       clockwork.NewRealClock(),
		sessions:    make(map[string]*session),
	}, nil
}

// Handler builds the router with its middleware.
func (s *service) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/heatmap.svg", s.handleSVG).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/legend", s.handleLegend).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{id}/pointer", s.handlePointer).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.CompressHandler(h)
	if s.AccessLog != nil {
		h = handlers.LoggingHandler(s.AccessLog, h)
	}
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
}

// Start runs the HTTP server.
func (s *service) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	slog.Info("Starting HTTP service", "address", addr)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *service) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *service) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := s.newSession()
	page, err := s.heatmap.Page("/api/sessions/" + id + "/pointer")
	if err != nil {
		s.respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

func (s *service) handleSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = io.WriteString(w, s.svgDoc)
}

func (s *service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *service) handleLegend(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.chart.Legend)
}

func (s *service) handlePointer(w http.ResponseWriter, r *http.Request) {
	ctrl := s.session(mux.Vars(r)["id"])
	if ctrl == nil {
		s.respond(w, http.StatusNotFound, map[string]string{"error": "Unknown session"})
		return
	}

	var ev PointerEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventBytes)).Decode(&ev); err != nil {
		s.countEvent("invalid", "rejected")
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "Invalid pointer event"})
		return
	}

	at := interaction.Point{X: ev.X, Y: ev.Y}
	switch ev.Type {
	case EventEnter:
		if ev.Cell == nil {
			s.countEvent(ev.Type, "rejected")
			s.respond(w, http.StatusBadRequest, map[string]string{"error": "Missing cell"})
			return
		}
		var err error
		if len(ev.Attributes) > 0 {
			err = ctrl.EnterElement(*ev.Cell, ev.Attributes, at)
		} else {
			err = ctrl.Enter(*ev.Cell, at)
		}
		if err != nil {
			var perr *grid.AttributeParseError
			if errors.As(err, &perr) || errors.Is(err, interaction.ErrUnknownCell) {
				s.countEvent(ev.Type, "rejected")
				s.respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
			s.respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	case EventMove:
		ctrl.Move(at)
	case EventLeave:
		ctrl.Leave()
	default:
		s.countEvent("invalid", "rejected")
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "Unknown event type"})
		return
	}

	s.countEvent(ev.Type, "ok")
	s.respond(w, http.StatusOK, ctrl.State())
}

func (s *service) newSession() string {
	id := uuid.NewString()
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.sessions) >= s.MaxSessions {
		s.evictOldestLocked()
	}
	s.sessions[id] = &session{
		ctrl:     interaction.New(s.chart.Grid, slog.Default().With("session", id)),
		lastSeen: now,
	}
	s.updateGaugeLocked()
	return id
}

// session returns the session's controller and refreshes its deadline.
func (s *service) session(id string) *interaction.Controller {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if now.Sub(sess.lastSeen) > s.SessionTTL {
		delete(s.sessions, id)
		s.updateGaugeLocked()
		return nil
	}
	sess.lastSeen = now
	return sess.ctrl
}

func (s *service) pruneLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.SessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *service) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}

func (s *service) updateGaugeLocked() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
}

func (s *service) countEvent(typ, outcome string) {
	if s.metrics != nil {
		s.metrics.PointerEvents.WithLabelValues(typ, outcome).Inc()
	}
}

func (s *service) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
