// Package mcp exposes a running nexus.Engine as a Model Context Protocol
// server so agent hosts can mount scenes, drive the pointer and read frames.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/nexus"
	"github.com/aretw0/nexus/internal/presentation/graph"
	"github.com/aretw0/nexus/pkg/domain"
)

// InstanceInfo aligns with the HTTP adapter's response shape so tool output
// is consistent across adapters.
type InstanceInfo struct {
	InstanceID string `json:"instance_id" jsonschema_description:"The mounted instance ID"`
	SceneID    string `json:"scene_id" jsonschema_description:"The scene definition the instance was mounted from"`
	Running    bool   `json:"running" jsonschema_description:"Whether the instance is driven by its frame loop"`
	FrameSeq   uint64 `json:"frame_seq" jsonschema_description:"Sequence number of the most recent frame"`
}

// HoverResult reports the outcome of a pointer move.
type HoverResult struct {
	Hovered string `json:"hovered" jsonschema_description:"ID of the hovered node, empty when the pointer misses"`
}

// Server wraps the nexus Engine and exposes it as an MCP Server.
type Server struct {
	engine    *nexus.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *nexus.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("nexus-mcp", strings.TrimSpace(nexus.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_scenes
	s.mcpServer.AddTool(mcp.NewTool("list_scenes",
		mcp.WithDescription("List the IDs of every scene definition available to the engine."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scenes, err := s.engine.Scenes()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(scenes)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: inspect_scene
	s.mcpServer.AddTool(mcp.NewTool("inspect_scene",
		mcp.WithDescription("Load and validate a scene definition without mounting it. Returns the full definition as JSON."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("The scene definition ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sceneID, err := request.RequireString("scene_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		def, err := s.engine.Inspect(sceneID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(def)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: graph_scene
	s.mcpServer.AddTool(mcp.NewTool("graph_scene",
		mcp.WithDescription("Render a scene definition as a Mermaid graph for visualization."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("The scene definition ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sceneID, err := request.RequireString("scene_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		def, err := s.engine.Inspect(sceneID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(def, nil)), nil
	})

	// TOOL: mount_scene
	mountTool := mcp.NewTool("mount_scene",
		mcp.WithDescription("Mount a scene into a live instance. Manual instances are stepped explicitly; otherwise a frame loop drives the simulation."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("The scene definition ID")),
		mcp.WithString("instance_id", mcp.Description("Instance ID to assign (optional, generated when omitted)")),
		mcp.WithBoolean("manual", mcp.Description("Disable the frame loop and step manually (default false)")),
		mcp.WithOutputSchema[InstanceInfo](),
	)
	s.mcpServer.AddTool(mountTool, mcp.NewStructuredToolHandler(s.handleMount))

	// TOOL: unmount_scene
	s.mcpServer.AddTool(mcp.NewTool("unmount_scene",
		mcp.WithDescription("Stop and tear down a mounted instance."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("The instance ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceID, err := request.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.engine.Unmount(instanceID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("unmount failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("instance %s unmounted", instanceID)), nil
	})

	// TOOL: get_frame
	frameTool := mcp.NewTool("get_frame",
		mcp.WithDescription("Get the current render frame of a mounted instance: node transforms, edge segments and hover state."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("The instance ID")),
		mcp.WithOutputSchema[domain.Frame](),
	)
	s.mcpServer.AddTool(frameTool, mcp.NewStructuredToolHandler(s.handleGetFrame))

	// TOOL: step_instance
	stepTool := mcp.NewTool("step_instance",
		mcp.WithDescription("Advance a manually driven instance by the given elapsed time and return the resulting frame."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("The instance ID")),
		mcp.WithNumber("delta_ms", mcp.Description("Elapsed time in milliseconds (default 16)")),
		mcp.WithOutputSchema[domain.Frame](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))

	// TOOL: pointer_move
	pointerTool := mcp.NewTool("pointer_move",
		mcp.WithDescription("Move the pointer over the viewport in normalized device coordinates [-1, 1] and report the hovered node."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("The instance ID")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Horizontal NDC coordinate, -1 (left) to 1 (right)")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Vertical NDC coordinate, -1 (bottom) to 1 (top)")),
		mcp.WithOutputSchema[HoverResult](),
	)
	s.mcpServer.AddTool(pointerTool, mcp.NewStructuredToolHandler(s.handlePointerMove))

	// TOOL: pointer_leave
	s.mcpServer.AddTool(mcp.NewTool("pointer_leave",
		mcp.WithDescription("Clear the hover state, as when the pointer exits the viewport."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("The instance ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceID, err := request.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		inst, ok := s.engine.Instance(instanceID)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("instance %s not found", instanceID)), nil
		}
		inst.PointerLeave()
		return mcp.NewToolResultText("hover cleared"), nil
	})

	// TOOL: save_snapshot
	s.mcpServer.AddTool(mcp.NewTool("save_snapshot",
		mcp.WithDescription("Persist the current simulation state of an instance to the configured snapshot store."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("The instance ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceID, err := request.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.engine.SaveSnapshot(ctx, instanceID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("snapshot saved for %s", instanceID)), nil
	})

	// TOOL: restore_snapshot
	s.mcpServer.AddTool(mcp.NewTool("restore_snapshot",
		mcp.WithDescription("Restore an instance to its persisted snapshot."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("The instance ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceID, err := request.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.engine.RestoreSnapshot(ctx, instanceID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("restore failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("instance %s restored", instanceID)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleMount(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (InstanceInfo, error) {
	sceneID, _ := args["scene_id"].(string)
	if sceneID == "" {
		return InstanceInfo{}, fmt.Errorf("scene_id is required")
	}

	var opts []nexus.MountOption
	if instanceID, ok := args["instance_id"].(string); ok && instanceID != "" {
		opts = append(opts, nexus.WithInstanceID(instanceID))
	}
	if manual, ok := args["manual"].(bool); ok && manual {
		opts = append(opts, nexus.WithoutLoop())
	}

	// The instance outlives the tool call, so the loop must not inherit
	// the request context.
	inst, err := s.engine.Mount(context.Background(), sceneID, opts...)
	if err != nil {
		return InstanceInfo{}, fmt.Errorf("mount failed: %w", err)
	}
	return describe(inst), nil
}

func (s *Server) handleGetFrame(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Frame, error) {
	inst, err := s.instanceFromArgs(args)
	if err != nil {
		return domain.Frame{}, err
	}
	frame := inst.Frame()
	if frame == nil {
		return domain.Frame{}, fmt.Errorf("instance is unmounted")
	}
	return *frame, nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Frame, error) {
	inst, err := s.instanceFromArgs(args)
	if err != nil {
		return domain.Frame{}, err
	}
	if inst.Running() {
		return domain.Frame{}, fmt.Errorf("instance is driven by its frame loop")
	}

	deltaMs := 16.0
	if v, ok := args["delta_ms"].(float64); ok {
		deltaMs = v
	}
	if deltaMs < 0 {
		return domain.Frame{}, fmt.Errorf("delta_ms must not be negative")
	}

	frame := inst.Step(time.Duration(deltaMs * float64(time.Millisecond)))
	if frame == nil {
		return domain.Frame{}, fmt.Errorf("instance is unmounted")
	}
	return *frame, nil
}

func (s *Server) handlePointerMove(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (HoverResult, error) {
	inst, err := s.instanceFromArgs(args)
	if err != nil {
		return HoverResult{}, err
	}

	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)
	if !okX || !okY {
		return HoverResult{}, fmt.Errorf("x and y are required numbers")
	}

	return HoverResult{Hovered: inst.PointerMove(x, y)}, nil
}

func (s *Server) instanceFromArgs(args map[string]interface{}) (*nexus.Instance, error) {
	instanceID, _ := args["instance_id"].(string)
	if instanceID == "" {
		return nil, fmt.Errorf("instance_id is required")
	}
	inst, ok := s.engine.Instance(instanceID)
	if !ok {
		return nil, fmt.Errorf("instance %s not found", instanceID)
	}
	return inst, nil
}

func describe(inst *nexus.Instance) InstanceInfo {
	info := InstanceInfo{
		InstanceID: inst.ID(),
		SceneID:    inst.SceneID(),
		Running:    inst.Running(),
	}
	if frame := inst.Frame(); frame != nil {
		info.FrameSeq = frame.Seq
	}
	return info
}

func (s *Server) registerResources() {
	// EXPOSE: nexus://scenes
	s.mcpServer.AddResource(mcp.NewResource("nexus://scenes", "Available Scene Definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		scenes, err := s.engine.Scenes()
		if err != nil {
			return nil, fmt.Errorf("failed to list scenes: %w", err)
		}

		type sceneSummary struct {
			ID    string `json:"id"`
			Title string `json:"title,omitempty"`
			Nodes int    `json:"nodes"`
			Edges int    `json:"edges"`
		}
		summaries := make([]sceneSummary, 0, len(scenes))
		for _, id := range scenes {
			def, err := s.engine.Inspect(id)
			if err != nil {
				continue
			}
			summaries = append(summaries, sceneSummary{
				ID:    def.ID,
				Title: def.Title,
				Nodes: len(def.Nodes),
				Edges: len(def.Edges),
			})
		}
		jsonBytes, _ := json.Marshal(summaries)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "nexus://scenes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
