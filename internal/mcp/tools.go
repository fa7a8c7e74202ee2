package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/project-atlas/internal/analyzer"
	"github.com/mvp-joe/project-atlas/internal/resolve"
	"github.com/mvp-joe/project-atlas/internal/search"
)

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// registerTools adds every atlas tool to s.
func registerTools(s *server.MCPServer, st *state) {
	s.AddTool(mcp.NewTool(
		"atlas_modules",
		mcp.WithDescription("List the domain modules of the project with bilingual labels and entity counts, or describe one module's controllers, services, DTO files, frontend files and endpoints."),
		mcp.WithString("module",
			mcp.Description("Domain key to describe (e.g., 'payments'). Omit to list all modules.")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	), modulesHandler(st))

	s.AddTool(mcp.NewTool(
		"atlas_endpoints",
		mcp.WithDescription("List HTTP endpoints with verb, full path, required roles and the DTOs named in their parameters."),
		mcp.WithString("module",
			mcp.Description("Only endpoints of this domain module")),
		mcp.WithString("http_method",
			mcp.Description("Only this verb (GET, POST, PATCH, PUT, DELETE, OPTIONS, HEAD)")),
		mcp.WithString("path_prefix",
			mcp.Description("Only paths starting with this prefix (e.g., '/customers')")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	), endpointsHandler(st))

	s.AddTool(mcp.NewTool(
		"atlas_dto",
		mcp.WithDescription("Show a DTO class: its file, fields with type annotations and validators, and the endpoints whose parameters use it."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("DTO class name (e.g., 'CreateCustomerDto')")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	), dtoHandler(st))

	s.AddTool(mcp.NewTool(
		"atlas_calls",
		mcp.WithDescription("Show the injected-service calls made inside a controller or service method. Resolved targets name the injected type; unresolved ones keep the raw property name."),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Controller or service class name (e.g., 'CustomersController')")),
		mcp.WithString("method",
			mcp.Description("Method name. Omit for every method of the class.")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	), callsHandler(st))

	s.AddTool(mcp.NewTool(
		"atlas_search",
		mcp.WithDescription("Keyword search over endpoints, DTO classes and services. Supports field scoping, boolean operators, phrases, wildcards and fuzzy terms."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query (e.g., 'customers AND manager', 'refund*')")),
		mcp.WithString("kind",
			mcp.Description("Restrict to 'endpoint', 'dto' or 'service'")),
		mcp.WithString("module",
			mcp.Description("Restrict to one domain module")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results (default: 15, max: 100)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	), searchHandler(st))

	s.AddTool(mcp.NewTool(
		"atlas_dependencies",
		mcp.WithDescription("Show constructor-injection relationships of a class: what it injects, what injects it, any injection cycles it is part of, and its instantiation order."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Class or injected type name (e.g., 'CustomersService')")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	), dependenciesHandler(st))
}

// initOrder filters the graph's dependency-first order down to name and
// the classes reachable from it.
func initOrder(snap *analyzer.Snapshot, name string) []string {
	order, err := snap.Graph.Order()
	if err != nil {
		return []string{}
	}

	reachable := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, dep := range snap.Graph.Dependencies(next) {
			if !reachable[dep] {
				reachable[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	out := make([]string, 0, len(reachable))
	for _, v := range order {
		if reachable[v] {
			out = append(out, v)
		}
	}
	return out
}

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// ModuleSummary is one entry of the module listing.
type ModuleSummary struct {
	Key         string `json:"key"`
	LabelEn     string `json:"label_en"`
	LabelAr     string `json:"label_ar"`
	Controllers int    `json:"controllers"`
	Services    int    `json:"services"`
	Dtos        int    `json:"dtos"`
	Frontend    int    `json:"frontend"`
}

// ModuleDetail describes one module.
type ModuleDetail struct {
	ModuleSummary
	ControllerNames []string            `json:"controller_names"`
	ServiceNames    []string            `json:"service_names"`
	DtoFiles        []string            `json:"dto_files"`
	FrontendFiles   []string            `json:"frontend_files"`
	Endpoints       []analyzer.Endpoint `json:"endpoints"`
}

func modulesHandler(st *state) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Module string `json:"module"`
		}
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		key := args.Module

		snap := st.snapshot()
		summary := func(k string) ModuleSummary {
			m := snap.Modules[k]
			return ModuleSummary{
				Key:         k,
				LabelEn:     st.label(k, "en"),
				LabelAr:     st.label(k, "ar"),
				Controllers: len(m.Controllers),
				Services:    len(m.Services),
				Dtos:        len(m.Dtos),
				Frontend:    len(m.Frontend),
			}
		}

		if key == "" {
			out := []ModuleSummary{}
			for _, k := range snap.Modules.Keys() {
				out = append(out, summary(k))
			}
			return jsonResult(out)
		}

		m, ok := snap.Modules[key]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown module: %s (known: %s)", key, strings.Join(snap.Modules.Keys(), ", "))), nil
		}
		detail := ModuleDetail{
			ModuleSummary:   summary(key),
			ControllerNames: []string{},
			ServiceNames:    []string{},
			DtoFiles:        []string{},
			FrontendFiles:   []string{},
			Endpoints:       snap.EndpointsIn(key),
		}
		for _, c := range m.Controllers {
			detail.ControllerNames = append(detail.ControllerNames, c.Name)
		}
		for _, svc := range m.Services {
			detail.ServiceNames = append(detail.ServiceNames, svc.Name)
		}
		for _, d := range m.Dtos {
			detail.DtoFiles = append(detail.DtoFiles, d.File)
		}
		for _, f := range m.Frontend {
			detail.FrontendFiles = append(detail.FrontendFiles, f.File)
		}
		return jsonResult(detail)
	}
}

func endpointsHandler(st *state) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Module     string `json:"module"`
			HTTPMethod string `json:"http_method"`
			PathPrefix string `json:"path_prefix"`
		}
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		snap := st.snapshot()
		endpoints := snap.Endpoints()
		if args.Module != "" {
			endpoints = snap.EndpointsIn(args.Module)
		}

		out := []analyzer.Endpoint{}
		for _, e := range endpoints {
			if args.HTTPMethod != "" && !strings.EqualFold(e.HTTPMethod, args.HTTPMethod) {
				continue
			}
			if args.PathPrefix != "" && !strings.HasPrefix(e.Path, args.PathPrefix) {
				continue
			}
			out = append(out, e)
		}
		return jsonResult(out)
	}
}

// DtoResponse is the atlas_dto payload.
type DtoResponse struct {
	Name  string              `json:"name"`
	Entry resolve.DtoEntry    `json:"definition"`
	Usage []resolve.UsageSite `json:"usage"`
}

func dtoHandler(st *state) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Name string `json:"name"`
		}
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := requireString("name", args.Name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name := args.Name

		snap := st.snapshot()
		entry, ok := snap.DtoIndex[name]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown DTO: %s", name)), nil
		}
		return jsonResult(DtoResponse{Name: name, Entry: entry, Usage: snap.DtoUsage[name]})
	}
}

func callsHandler(st *state) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Owner  string `json:"owner"`
			Method string `json:"method"`
		}
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := requireString("owner", args.Owner); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		snap := st.snapshot()
		calls := snap.CallsOf(args.Owner, args.Method)
		if len(calls) == 0 && args.Method != "" {
			if _, ok := snap.ServiceIndex[args.Owner]; ok && !snap.ServiceIndex.HasMethod(args.Owner, args.Method) {
				return mcp.NewToolResultError(fmt.Sprintf("unknown method: %s.%s", args.Owner, args.Method)), nil
			}
		}
		return jsonResult(calls)
	}
}

// SearchResponse is the atlas_search payload.
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Total   int             `json:"total"`
}

func searchHandler(st *state) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Query  string `json:"query"`
			Kind   string `json:"kind"`
			Module string `json:"module"`
			Limit  int    `json:"limit"`
		}
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := requireString("query", args.Query); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		switch args.Kind {
		case "", search.KindEndpoint, search.KindDto, search.KindService:
		default:
			return mcp.NewToolResultError(fmt.Sprintf("invalid kind: %s (must be one of: endpoint, dto, service)", args.Kind)), nil
		}

		results, err := st.index.Search(ctx, args.Query, &search.Options{
			Kind:   args.Kind,
			Module: args.Module,
			Limit:  clamp(args.Limit, search.DefaultLimit, 1, search.MaxLimit),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(SearchResponse{Query: args.Query, Results: results, Total: len(results)})
	}
}

// DependenciesResponse is the atlas_dependencies payload.
type DependenciesResponse struct {
	Name         string     `json:"name"`
	Kind         string     `json:"kind"`
	Dependencies []string   `json:"dependencies"`
	Dependents   []string   `json:"dependents"`
	Cycles       [][]string `json:"cycles"`
	// InitOrder lists name and everything it transitively injects,
	// dependencies first. Empty when the project has an injection cycle.
	InitOrder []string `json:"init_order"`
}

func dependenciesHandler(st *state) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Name string `json:"name"`
		}
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := requireString("name", args.Name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name := args.Name

		snap := st.snapshot()
		kind := snap.Graph.Kind(name)
		if kind == "" {
			return mcp.NewToolResultError(fmt.Sprintf("unknown class: %s", name)), nil
		}

		resp := DependenciesResponse{
			Name:         name,
			Kind:         kind,
			Dependencies: snap.Graph.Dependencies(name),
			Dependents:   snap.Graph.Dependents(name),
			Cycles:       [][]string{},
			InitOrder:    initOrder(snap, name),
		}
		for _, cycle := range snap.Cycles {
			if i := sort.SearchStrings(cycle, name); i < len(cycle) && cycle[i] == name {
				resp.Cycles = append(resp.Cycles, cycle)
			}
		}
		return jsonResult(resp)
	}
}
