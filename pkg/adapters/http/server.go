// Package http exposes a running nexus.Engine over a REST-ish API with a
// server-sent-events frame stream, suitable for browser front ends that
// render the scene remotely.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/ports"
)

// Server carries the engine and the SSE stream registry behind the handler.
type Server struct {
	Engine  *nexus.Engine
	Streams *StreamManager
}

// NewHandler creates the HTTP handler for the engine. When the engine has a
// metrics collector, its registry is exposed on /metrics.
func NewHandler(engine *nexus.Engine) http.Handler {
	server := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
	}
	r := chi.NewRouter()

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/scenes", server.ListScenes)
	r.Get("/scenes/{sceneID}", server.InspectScene)
	r.Post("/instances", server.MountInstance)
	r.Get("/instances", server.ListInstances)
	r.Get("/instances/{instanceID}", server.GetInstance)
	r.Delete("/instances/{instanceID}", server.UnmountInstance)
	r.Get("/instances/{instanceID}/frame", server.GetFrame)
	r.Get("/instances/{instanceID}/nodes/{nodeID}", server.GetNode)
	r.Post("/instances/{instanceID}/step", server.StepInstance)
	r.Post("/instances/{instanceID}/pointer", server.PointerMove)
	r.Delete("/instances/{instanceID}/pointer", server.PointerLeave)
	r.Post("/instances/{instanceID}/snapshot", server.SaveSnapshot)
	r.Post("/instances/{instanceID}/restore", server.RestoreSnapshot)
	r.Get("/events", server.SubscribeEvents)

	if collector := engine.Metrics(); collector != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// -- Request / response bodies --

type mountRequest struct {
	SceneID    string `json:"scene_id"`
	InstanceID string `json:"instance_id,omitempty"`
	// Manual disables the frame loop so the client drives stepping.
	Manual bool `json:"manual,omitempty"`
}

type instanceInfo struct {
	InstanceID string `json:"instance_id"`
	SceneID    string `json:"scene_id"`
	Running    bool   `json:"running"`
	FrameSeq   uint64 `json:"frame_seq"`
}

type pointerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type stepRequest struct {
	DeltaMs float64 `json:"delta_ms"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSceneNotFound), errors.Is(err, domain.ErrSnapshotNotFound),
		errors.Is(err, domain.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSceneClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func describe(inst *nexus.Instance) instanceInfo {
	info := instanceInfo{
		InstanceID: inst.ID(),
		SceneID:    inst.SceneID(),
		Running:    inst.Running(),
	}
	if frame := inst.Frame(); frame != nil {
		info.FrameSeq = frame.Seq
	}
	return info
}

// -- Handlers --

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "nexus-http",
		"version": strings.TrimSpace(nexus.Version),
	})
}

// ListScenes handles the GET /scenes request.
func (s *Server) ListScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := s.Engine.Scenes()
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		slog.Error("ListScenes failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"scenes": scenes})
}

// InspectScene handles the GET /scenes/{sceneID} request, returning the
// validated definition.
func (s *Server) InspectScene(w http.ResponseWriter, r *http.Request) {
	sceneID := chi.URLParam(r, "sceneID")
	def, err := s.Engine.Inspect(sceneID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Inspect error: %v", err), statusFromError(err))
		slog.Warn("InspectScene failed", "scene", sceneID, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// MountInstance handles the POST /instances request. Every instance mounted
// over HTTP gets a frame sink that broadcasts to its SSE subscribers.
func (s *Server) MountInstance(w http.ResponseWriter, r *http.Request) {
	var body mountRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("MountInstance: Invalid request body", "error", err)
		return
	}
	if body.SceneID == "" {
		http.Error(w, "scene_id is required", http.StatusBadRequest)
		return
	}
	if body.InstanceID == "" {
		body.InstanceID = uuid.NewString()
	}

	opts := []nexus.MountOption{
		nexus.WithInstanceID(body.InstanceID),
		nexus.WithFrameSinks(s.frameSink(body.InstanceID)),
	}
	if body.Manual {
		opts = append(opts, nexus.WithoutLoop())
	}

	// The instance outlives the mount request; r.Context() would stop the
	// frame loop as soon as the response is written.
	inst, err := s.Engine.Mount(context.Background(), body.SceneID, opts...)
	if err != nil {
		http.Error(w, fmt.Sprintf("Mount error: %v", err), statusFromError(err))
		slog.Error("MountInstance failed", "scene", body.SceneID, "error", err)
		return
	}
	writeJSON(w, http.StatusCreated, describe(inst))
}

// frameSink marshals frames and broadcasts them to the instance's SSE
// subscribers. Marshal failures drop the frame.
func (s *Server) frameSink(instanceID string) ports.FrameSink {
	return ports.FrameSinkFunc(func(ctx context.Context, frame *domain.Frame) {
		data, err := json.Marshal(frame)
		if err != nil {
			return
		}
		s.Streams.Broadcast(instanceID, string(data))
	})
}

// ListInstances handles the GET /instances request.
func (s *Server) ListInstances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"instances": s.Engine.Instances()})
}

// GetInstance handles the GET /instances/{instanceID} request.
func (s *Server) GetInstance(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.Engine.Instance(chi.URLParam(r, "instanceID"))
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, describe(inst))
}

// UnmountInstance handles the DELETE /instances/{instanceID} request. Open
// SSE streams for the instance are closed.
func (s *Server) UnmountInstance(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")
	if err := s.Engine.Unmount(instanceID); err != nil {
		http.Error(w, fmt.Sprintf("Unmount error: %v", err), statusFromError(err))
		return
	}
	s.Streams.CloseTopic(instanceID)
	w.WriteHeader(http.StatusNoContent)
}

// GetFrame handles the GET /instances/{instanceID}/frame request.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.Engine.Instance(chi.URLParam(r, "instanceID"))
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return
	}
	frame := inst.Frame()
	if frame == nil {
		http.Error(w, "Instance is unmounted", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

// GetNode handles the GET /instances/{instanceID}/nodes/{nodeID} request,
// returning the node's current render transform.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.Engine.Instance(chi.URLParam(r, "instanceID"))
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return
	}

	node, err := inst.Node(chi.URLParam(r, "nodeID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Node error: %v", err), statusFromError(err))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// StepInstance handles the POST /instances/{instanceID}/step request for
// instances mounted with manual stepping.
func (s *Server) StepInstance(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.Engine.Instance(chi.URLParam(r, "instanceID"))
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return
	}
	if inst.Running() {
		http.Error(w, "Instance is driven by its frame loop", http.StatusConflict)
		return
	}

	var body stepRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.DeltaMs < 0 {
		http.Error(w, "delta_ms must not be negative", http.StatusBadRequest)
		return
	}

	frame := inst.Step(time.Duration(body.DeltaMs * float64(time.Millisecond)))
	if frame == nil {
		http.Error(w, "Instance is unmounted", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

// PointerMove handles the POST /instances/{instanceID}/pointer request. The
// coordinates are normalized device coordinates in [-1, 1].
func (s *Server) PointerMove(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.Engine.Instance(chi.URLParam(r, "instanceID"))
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return
	}

	var body pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("PointerMove: Invalid request body", "error", err)
		return
	}

	hovered := inst.PointerMove(body.X, body.Y)
	writeJSON(w, http.StatusOK, map[string]string{"hovered": hovered})
}

// PointerLeave handles the DELETE /instances/{instanceID}/pointer request.
func (s *Server) PointerLeave(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.Engine.Instance(chi.URLParam(r, "instanceID"))
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return
	}
	inst.PointerLeave()
	w.WriteHeader(http.StatusNoContent)
}

// SaveSnapshot handles the POST /instances/{instanceID}/snapshot request.
func (s *Server) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")
	if err := s.Engine.SaveSnapshot(r.Context(), instanceID); err != nil {
		http.Error(w, fmt.Sprintf("Snapshot error: %v", err), statusFromError(err))
		slog.Error("SaveSnapshot failed", "instance", instanceID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreSnapshot handles the POST /instances/{instanceID}/restore request.
func (s *Server) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")
	inst, ok := s.Engine.Instance(instanceID)
	if !ok {
		http.Error(w, "Instance not found", http.StatusNotFound)
		return
	}
	if err := s.Engine.RestoreSnapshot(r.Context(), instanceID); err != nil {
		http.Error(w, fmt.Sprintf("Restore error: %v", err), statusFromError(err))
		slog.Error("RestoreSnapshot failed", "instance", instanceID, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, describe(inst))
}

// StreamManager handles active SSE connections, keyed by instance ID.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
	}
}

// Subscribe registers a channel for the instance's frames. The returned
// cancel func unregisters and closes it.
func (sm *StreamManager) Subscribe(instanceID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[instanceID]; !ok {
		sm.subscribers[instanceID] = make(map[chan string]struct{})
	}
	sm.subscribers[instanceID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[instanceID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(sm.subscribers, instanceID)
			}
		}
	}
}

// Broadcast fans a message out to the instance's subscribers. Full channels
// drop the message so a slow client never stalls the frame loop.
func (sm *StreamManager) Broadcast(instanceID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if subs, ok := sm.subscribers[instanceID]; ok {
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				slog.Warn("SSE: Client buffer full, dropping frame", "instance", instanceID)
			}
		}
	}
}

// CloseTopic closes every subscriber channel for the instance, ending their
// SSE loops. Used when the instance is unmounted.
func (sm *StreamManager) CloseTopic(instanceID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if subs, ok := sm.subscribers[instanceID]; ok {
		for ch := range subs {
			close(ch)
		}
		delete(sm.subscribers, instanceID)
	}
}

// SubscribeEvents handles the GET /events request (SSE). With an
// instance_id query parameter it streams that instance's frames; without
// one it streams vault change notifications from the loader.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	instanceID := r.URL.Query().Get("instance_id")

	// Vault hot reload stream.
	if instanceID == "" {
		slog.Info("SSE: Subscribing to vault changes")
		events, err := s.Engine.Watch(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: scene\ndata: %s\n\n", event)
				flusher.Flush()
			}
		}
	}

	// Per-instance frame stream.
	slog.Info("SSE: Subscribing to instance frames", "instance", instanceID)
	ch, cancel := s.Streams.Subscribe(instanceID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("SSE Client Disconnected", "instance", instanceID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: frame\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
