package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskchat/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Chat    *apiHandler.ChatHandler
	Tools   *apiHandler.ToolsHandler
	Health  *apiHandler.HealthHandler

	// MCP and Metrics are optional.
	MCP     fasthttp.RequestHandler
	Metrics fasthttp.RequestHandler
}

type Options struct {
	MCPPath  string
	DevLogin bool
	// Instrument, when set, wraps every route with its pattern.
	Instrument func(route string, next fasthttp.RequestHandler) fasthttp.RequestHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, opts Options, authMiddleware Middleware) *router.Router {
	r := router.New()

	wrap := func(route string, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		if opts.Instrument != nil {
			return opts.Instrument(route, h)
		}
		return h
	}
	public := func(method, route string, h fasthttp.RequestHandler) {
		r.Handle(method, route, wrap(route, h))
	}
	protected := func(method, route string, h fasthttp.RequestHandler) {
		r.Handle(method, route, wrap(route, authMiddleware(h)))
	}

	public(fasthttp.MethodGet, "/", handlers.Health.Root)
	public(fasthttp.MethodGet, "/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	// Auth routes
	if opts.DevLogin {
		public(fasthttp.MethodPost, "/api/v1/auth/login", handlers.Auth.Login)
	}
	protected(fasthttp.MethodPost, "/api/v1/auth/refresh", handlers.Auth.Refresh)
	protected(fasthttp.MethodPost, "/api/v1/auth/logout", handlers.Auth.Logout)

	// Tasks
	protected(fasthttp.MethodGet, "/api/{user_id}/tasks", handlers.Task.GetTasks)
	protected(fasthttp.MethodPost, "/api/{user_id}/tasks", handlers.Task.CreateTask)
	protected(fasthttp.MethodGet, "/api/{user_id}/tasks/{id}", handlers.Task.GetTask)
	protected(fasthttp.MethodPut, "/api/{user_id}/tasks/{id}", handlers.Task.UpdateTask)
	protected(fasthttp.MethodDelete, "/api/{user_id}/tasks/{id}", handlers.Task.DeleteTask)
	protected(fasthttp.MethodPatch, "/api/{user_id}/tasks/{id}/complete", handlers.Task.ToggleTask)

	// Chat
	protected(fasthttp.MethodPost, "/api/{user_id}/chat", handlers.Chat.Chat)
	protected(fasthttp.MethodGet, "/api/{user_id}/conversations/{id}/messages", handlers.Chat.Messages)

	protected(fasthttp.MethodGet, "/api/{user_id}/profile", handlers.Profile.GetProfile)

	// Agent tools
	protected(fasthttp.MethodGet, "/api/v1/tools", handlers.Tools.List)
	protected(fasthttp.MethodPost, "/api/v1/tools/{name}", handlers.Tools.Call)
	if handlers.MCP != nil && opts.MCPPath != "" {
		protected(fasthttp.MethodPost, opts.MCPPath, handlers.MCP)
		protected(fasthttp.MethodGet, opts.MCPPath, handlers.MCP)
		protected(fasthttp.MethodDelete, opts.MCPPath, handlers.MCP)
	}

	return r
}
