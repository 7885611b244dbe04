package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/bpkcongli/schema-checker/pkg/catalog"
	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SchemasURI is the resource exposing every checker definition.
const SchemasURI = "schemachecker://schemas"

// CheckResponse aligns with the HTTP CheckResult so both adapters answer alike.
type CheckResponse struct {
	Valid   bool        `json:"valid" jsonschema_description:"Whether the payload passed every check"`
	Code    schema.Code `json:"code,omitempty" jsonschema_description:"Violation code when the payload was refused"`
	Field   string      `json:"field,omitempty" jsonschema_description:"Offending field, if any"`
	Message string      `json:"message,omitempty" jsonschema_description:"Human readable violation"`
}

// Catalog defines the lookups the MCP server needs.
type Catalog interface {
	Entry(name string) (*catalog.Entry, error)
	Entries() []*catalog.Entry
}

// Server exposes a catalog of checkers as an MCP Server.
type Server struct {
	catalog   Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger falls back to slog.Default.
func NewServer(cat Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		catalog:   cat,
		logger:    logger,
		mcpServer: server.NewMCPServer("schemachecker-mcp", strings.TrimSpace(schemachecker.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
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

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
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
	// TOOL: check_payload
	checkTool := mcp.NewTool("check_payload",
		mcp.WithDescription("Check a JSON payload against a named schema. Violations are reported in the result, not as tool errors."),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Name of the schema to check against")),
		mcp.WithString("payload", mcp.Description("The payload as a JSON document (omit to check an empty payload)")),
		mcp.WithOutputSchema[CheckResponse](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheckPayload))

	// TOOL: list_schemas
	s.mcpServer.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List every schema with its mandatory and non-mandatory fields."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := s.definitionsJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleCheckPayload(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckResponse, error) {
	name, _ := args["schema"].(string)
	entry, err := s.catalog.Entry(name)
	if err != nil {
		return CheckResponse{}, err
	}

	var payload any
	if raw, ok := args["payload"].(string); ok && strings.TrimSpace(raw) != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return CheckResponse{}, fmt.Errorf("payload is not valid JSON: %w", err)
		}
	}

	if err := entry.Checker.Check(payload); err != nil {
		s.logger.Debug("MCP check_payload: payload rejected", "schema", name, "error", err)
		return CheckResponse{
			Code:    schema.CodeOf(err),
			Field:   schema.FieldOf(err),
			Message: err.Error(),
		}, nil
	}
	return CheckResponse{Valid: true}, nil
}

func (s *Server) definitionsJSON() ([]byte, error) {
	entries := s.catalog.Entries()
	defs := make([]catalog.Definition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, e.Definition)
	}
	return json.Marshal(defs)
}

func (s *Server) registerResources() {
	// EXPOSE: schemachecker://schemas
	s.mcpServer.AddResource(mcp.NewResource(SchemasURI, "Schema Definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := s.definitionsJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to list schemas: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SchemasURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
