package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/pkg/adapters/memory"
	"github.com/aretw0/nexus/pkg/domain"
	"github.com/aretw0/nexus/pkg/dsl"
)

func newTestHandler(t *testing.T, opts ...nexus.Option) (http.Handler, *nexus.Engine) {
	t.Helper()

	loader, err := memory.NewFromDefinitions(dsl.BuiltinScene())
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	opts = append([]nexus.Option{nexus.WithLoader(loader)}, opts...)
	eng, err := nexus.New("", opts...)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	t.Cleanup(eng.Close)
	return NewHandler(eng), eng
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthAndInfo(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}

	w = doJSON(t, handler, "GET", "/info", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("info: expected 200, got %d", w.Code)
	}
	var info map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info["app"] != "nexus-http" {
		t.Errorf("expected app nexus-http, got %q", info["app"])
	}
	if info["version"] == "" {
		t.Error("expected a version")
	}
}

func TestListAndInspectScenes(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "GET", "/scenes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listing map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing["scenes"]) != 1 || listing["scenes"][0] != "nexus" {
		t.Fatalf("expected [nexus], got %v", listing["scenes"])
	}

	w = doJSON(t, handler, "GET", "/scenes/nexus", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("inspect: expected 200, got %d", w.Code)
	}
	var def domain.Definition
	if err := json.Unmarshal(w.Body.Bytes(), &def); err != nil {
		t.Fatalf("decode definition: %v", err)
	}
	if def.ID != "nexus" || len(def.Nodes) == 0 {
		t.Errorf("unexpected definition: id=%q nodes=%d", def.ID, len(def.Nodes))
	}

	w = doJSON(t, handler, "GET", "/scenes/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing scene: expected 404, got %d", w.Code)
	}
}

func TestGetNode(t *testing.T) {
	handler, eng := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/instances", mountRequest{
		SceneID:    "nexus",
		InstanceID: "inst-node",
		Manual:     true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("mount: expected 201, got %d", w.Code)
	}

	inst, ok := eng.Instance("inst-node")
	if !ok {
		t.Fatal("instance not registered")
	}
	nodeID := inst.Definition().Nodes[0].ID

	w = doJSON(t, handler, "GET", "/instances/inst-node/nodes/"+nodeID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get node: expected 200, got %d", w.Code)
	}
	var node domain.NodeTransform
	if err := json.Unmarshal(w.Body.Bytes(), &node); err != nil {
		t.Fatalf("decode node: %v", err)
	}
	if node.ID != nodeID || node.Scale != 1 {
		t.Errorf("unexpected node: id=%q scale=%v", node.ID, node.Scale)
	}

	w = doJSON(t, handler, "GET", "/instances/inst-node/nodes/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing node: expected 404, got %d", w.Code)
	}

	w = doJSON(t, handler, "GET", "/instances/ghost/nodes/"+nodeID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing instance: expected 404, got %d", w.Code)
	}
}

func TestMountLifecycle(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/instances", mountRequest{
		SceneID:    "nexus",
		InstanceID: "inst-1",
		Manual:     true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("mount: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var info instanceInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.InstanceID != "inst-1" || info.SceneID != "nexus" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Running {
		t.Error("manual instance should not report a running loop")
	}

	// Manual stepping advances the frame sequence.
	w = doJSON(t, handler, "POST", "/instances/inst-1/step", stepRequest{DeltaMs: 16})
	if w.Code != http.StatusOK {
		t.Fatalf("step: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var frame domain.Frame
	if err := json.Unmarshal(w.Body.Bytes(), &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.Seq != 1 {
		t.Errorf("expected seq 1, got %d", frame.Seq)
	}

	w = doJSON(t, handler, "GET", "/instances/inst-1/frame", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("frame: expected 200, got %d", w.Code)
	}

	w = doJSON(t, handler, "POST", "/instances/inst-1/pointer", pointerRequest{X: 0, Y: 0})
	if w.Code != http.StatusOK {
		t.Fatalf("pointer: expected 200, got %d", w.Code)
	}
	var hover map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &hover); err != nil {
		t.Fatalf("decode hover: %v", err)
	}
	if _, ok := hover["hovered"]; !ok {
		t.Error("expected hovered field in response")
	}

	w = doJSON(t, handler, "DELETE", "/instances/inst-1/pointer", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("pointer leave: expected 204, got %d", w.Code)
	}

	w = doJSON(t, handler, "GET", "/instances", nil)
	var listing map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing["instances"]) != 1 {
		t.Fatalf("expected 1 instance, got %v", listing["instances"])
	}

	w = doJSON(t, handler, "DELETE", "/instances/inst-1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("unmount: expected 204, got %d", w.Code)
	}

	w = doJSON(t, handler, "GET", "/instances/inst-1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("after unmount: expected 404, got %d", w.Code)
	}
}

func TestMountValidation(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/instances", mountRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing scene_id: expected 400, got %d", w.Code)
	}

	w = doJSON(t, handler, "POST", "/instances", mountRequest{SceneID: "ghost"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown scene: expected 404, got %d", w.Code)
	}
}

func TestStepRejectsLoopDrivenInstance(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/instances", mountRequest{
		SceneID:    "nexus",
		InstanceID: "looped",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("mount: expected 201, got %d", w.Code)
	}

	w = doJSON(t, handler, "POST", "/instances/looped/step", stepRequest{DeltaMs: 16})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for loop-driven instance, got %d", w.Code)
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t, nexus.WithSnapshotStore(memory.NewStore()))

	w := doJSON(t, handler, "POST", "/instances", mountRequest{
		SceneID:    "nexus",
		InstanceID: "snappy",
		Manual:     true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("mount: expected 201, got %d", w.Code)
	}

	w = doJSON(t, handler, "POST", "/instances/snappy/snapshot", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("snapshot: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	// Drift, then restore back to the saved state.
	doJSON(t, handler, "POST", "/instances/snappy/step", stepRequest{DeltaMs: 16})
	w = doJSON(t, handler, "POST", "/instances/snappy/restore", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("restore: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, handler, "POST", "/instances/ghost/snapshot", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("snapshot for missing instance: expected 404, got %d", w.Code)
	}
}

func TestSubscribeEventsStreamsFrames(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/instances", mountRequest{
		SceneID:    "nexus",
		InstanceID: "streamed",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("mount: expected 201, got %d", w.Code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events?instance_id=streamed", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(wSub, reqSub)
		close(done)
	}()

	// Give the loop time to publish a few frames, then disconnect.
	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SSE handler did not return after context cancel")
	}

	body := wSub.Body.String()
	if !strings.Contains(body, "event: ping") {
		t.Error("expected ping event")
	}
	if !strings.Contains(body, "event: frame") {
		t.Errorf("expected at least one frame event, got: %.200s", body)
	}
	if !strings.Contains(body, `"scene_id":"nexus"`) {
		t.Error("expected frame payload with scene_id")
	}
}

func TestUnmountClosesStreams(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "POST", "/instances", mountRequest{
		SceneID:    "nexus",
		InstanceID: "short-lived",
		Manual:     true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("mount: expected 201, got %d", w.Code)
	}

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events?instance_id=short-lived", nil)

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(wSub, reqSub)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond) // let the subscription register

	w = doJSON(t, handler, "DELETE", "/instances/short-lived", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("unmount: expected 204, got %d", w.Code)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SSE handler did not return after unmount")
	}
}

func TestSubscribeEventsWatchUnsupported(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := doJSON(t, handler, "GET", "/events", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for loader without watch support, got %d", w.Code)
	}
}
