// Package mcp serves the task tools over the Model Context Protocol
// (streamable HTTP, stateless).
package mcp

import (
	"context"
	"net/http"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/pkg/httpcontext"
	"github.com/fastygo/taskchat/usecase/tools"
)

type identityKey struct{}

// WithIdentity stores the caller identity the tools are authorized against.
func WithIdentity(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, identityKey{}, userID)
}

func identity(ctx context.Context) string {
	userID, _ := ctx.Value(identityKey{}).(string)
	return userID
}

type Server struct {
	proto *mcpserver.MCPServer
	http  *mcpserver.StreamableHTTPServer
}

// NewServer publishes every tool registered on dispatcher. Each call is
// authorized against the identity the auth middleware placed in X-User-ID.
func NewServer(name, version, path string, dispatcher *tools.Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := mcpserver.NewMCPServer(name, version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions("Manage the caller's task list. "+
			"Always pass your own user_id. Use list_tasks to find task ids before "+
			"calling complete_task, update_task or delete_task."),
	)

	defs := dispatcher.Definitions()
	serverTools := make([]mcpserver.ServerTool, 0, len(defs))
	for _, def := range defs {
		name := def.Name
		serverTools = append(serverTools, mcpserver.ServerTool{
			Tool: mcpgo.NewToolWithRawSchema(name, def.Description, def.InputSchema),
			Handler: func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
				env := dispatcher.Call(ctx, identity(ctx), name, req.GetArguments())
				if env.IsError {
					return mcpgo.NewToolResultError(env.Content), nil
				}
				return mcpgo.NewToolResultText(env.Content), nil
			},
		})
	}
	s.AddTools(serverTools...)

	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithEndpointPath(path),
		mcpserver.WithStateLess(true),
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return WithIdentity(ctx, r.Header.Get(httpcontext.HeaderUserID))
		}),
	)

	logger.Info("mcp tools published", zap.String("path", path), zap.Int("tools", len(serverTools)))
	return &Server{proto: s, http: streamable}
}

// Handler bridges the MCP endpoint into fasthttp.
func (s *Server) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(s.http)
}

// MCPServer exposes the underlying protocol server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.proto
}
