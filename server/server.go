package server

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"connectrpc.com/connect"
	logcontext "github.com/va6996/agenttools/context"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/tools"
)

const (
	// ToolServiceName is the fully-qualified name of the ToolService.
	ToolServiceName = "tools.v1.ToolService"

	InvokeProcedure    = "/" + ToolServiceName + "/Invoke"
	ListToolsProcedure = "/" + ToolServiceName + "/ListTools"
)

// InvokeRequest asks for one tool call. Credentials are merged over the
// server's configured defaults for this call only.
type InvokeRequest struct {
	Tool        string                 `json:"tool"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Credentials map[string]string      `json:"credentials,omitempty"`
}

type InvokeResponse struct {
	Tool      string `json:"tool"`
	RequestID string `json:"request_id"`
	Data      any    `json:"data"`
}

type ListToolsRequest struct{}

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

type ListToolsResponse struct {
	Tools []ToolInfo `json:"tools"`
}

// ToolServer exposes a tool registry over connect.
type ToolServer struct {
	registry *tools.Registry
	defaults logcontext.Credentials
}

func NewToolServer(registry *tools.Registry, defaults map[string]string) *ToolServer {
	return &ToolServer{registry: registry, defaults: defaults}
}

func (s *ToolServer) Invoke(ctx context.Context, req *connect.Request[InvokeRequest]) (*connect.Response[InvokeResponse], error) {
	name := req.Msg.Tool
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("tool is required"))
	}

	requestID := logcontext.NewRequestID()
	ctx = logcontext.WithRequestID(ctx, requestID)
	ctx = logcontext.WithCredentials(ctx, s.defaults)
	ctx = logcontext.WithCredentials(ctx, req.Msg.Credentials)

	log.Infof(ctx, "Received invocation for %s", name)

	resp, err := s.registry.ExecuteTool(ctx, name, req.Msg.Parameters)
	if err != nil {
		var notFound *tools.ToolNotFoundError
		if errors.As(err, &notFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := connect.NewResponse(&InvokeResponse{Tool: name, RequestID: requestID, Data: resp.Data})
	out.Header().Set("X-Request-Id", requestID)
	return out, nil
}

func (s *ToolServer) ListTools(ctx context.Context, _ *connect.Request[ListToolsRequest]) (*connect.Response[ListToolsResponse], error) {
	infos := make([]ToolInfo, 0, len(s.registry.GetTools()))
	for _, t := range s.registry.GetTools() {
		def := t.Definition()
		infos = append(infos, ToolInfo{Name: def.Name, Description: def.Description, InputSchema: def.InputSchema})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return connect.NewResponse(&ListToolsResponse{Tools: infos}), nil
}

// NewToolServiceHandler builds an HTTP handler serving the ToolService
// procedures and returns the path to mount it on.
func NewToolServiceHandler(svc *ToolServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	invoke := connect.NewUnaryHandler(InvokeProcedure, svc.Invoke, opts...)
	list := connect.NewUnaryHandler(ListToolsProcedure, svc.ListTools, opts...)

	return "/" + ToolServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case InvokeProcedure:
			invoke.ServeHTTP(w, r)
		case ListToolsProcedure:
			list.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewInvokeClient returns a connect client for the Invoke procedure at
// baseURL.
func NewInvokeClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[InvokeRequest, InvokeResponse] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[InvokeRequest, InvokeResponse](httpClient, baseURL+InvokeProcedure, opts...)
}

// NewListToolsClient returns a connect client for the ListTools procedure.
func NewListToolsClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[ListToolsRequest, ListToolsResponse] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[ListToolsRequest, ListToolsResponse](httpClient, baseURL+ListToolsProcedure, opts...)
}

// WithCORS allows browser clients from any origin.
func WithCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
