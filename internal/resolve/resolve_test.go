package resolve

import (
	"encoding/json"
	"testing"

	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for resolve:
// - DTO and service indices keep the last definition of a duplicate name
// - Usage mapping matches whole words only and lists every DTO name
// - DtoMentions preserves the given name order
// - Call targets resolve through injections and degrade to raw names
// - Full paths join base and method routes without duplicate slashes

func fixtureControllers() []extract.ControllerMeta {
	return []extract.ControllerMeta{
		{
			File:      "api/src/customers/customers.controller.ts",
			Name:      "CustomersController",
			BaseRoute: "customers",
			Injected:  []extract.Injection{{Property: "customersService", Type: "CustomersService"}},
			Methods: []extract.MethodMeta{
				{Name: "findOne", Params: "@Param('id') id: string", HTTPMethod: "GET", Route: ":id"},
				{Name: "create", Params: "@Body() dto: CreateCustomerDto", HTTPMethod: "POST"},
				{Name: "bulk", Params: "@Body() dto: CreateCustomerDtoList"},
			},
		},
	}
}

func TestBuildDtoIndex_LastWriteWins(t *testing.T) {
	t.Parallel()

	idx := BuildDtoIndex([]extract.DtoFileMeta{
		{File: "a.dto.ts", Classes: []extract.DtoClassMeta{{Name: "SharedDto"}, {Name: "ADto"}}},
		{File: "b.dto.ts", Classes: []extract.DtoClassMeta{{Name: "SharedDto"}}},
	})

	assert.Equal(t, []string{"ADto", "SharedDto"}, idx.Names())
	assert.Equal(t, "b.dto.ts", idx["SharedDto"].File)
	assert.Equal(t, "a.dto.ts", idx["ADto"].File)
}

func TestBuildServiceIndex(t *testing.T) {
	t.Parallel()

	idx := BuildServiceIndex([]extract.ServiceMeta{
		{File: "a.service.ts", Name: "CustomersService", Methods: []extract.ServiceMethodMeta{{Name: "findOne"}}},
		{File: "b.service.ts", Name: "CustomersService", Methods: []extract.ServiceMethodMeta{{Name: "remove"}}},
	})

	require.Len(t, idx, 1)
	assert.Equal(t, "b.service.ts", idx["CustomersService"].File)
	assert.True(t, idx.HasMethod("CustomersService", "remove"))
	assert.False(t, idx.HasMethod("CustomersService", "findOne"))
	assert.False(t, idx.HasMethod("MissingService", "remove"))
}

func TestMapDtoUsage(t *testing.T) {
	t.Parallel()

	controllers := fixtureControllers()
	usage := MapDtoUsage(controllers, []string{"CreateCustomerDto", "UnusedDto"})

	require.Len(t, usage["CreateCustomerDto"], 1)
	site := usage["CreateCustomerDto"][0]
	assert.Equal(t, "CustomersController", site.Controller.Name)
	assert.Equal(t, "create", site.Method.Name)

	assert.NotNil(t, usage["UnusedDto"])
	assert.Empty(t, usage["UnusedDto"])

	data, err := json.Marshal(site)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"file": "api/src/customers/customers.controller.ts",
		"controller": "CustomersController",
		"method": "create",
		"http_method": "POST",
		"path": "/customers"
	}`, string(data))
}

func TestDtoMentions(t *testing.T) {
	t.Parallel()

	got := DtoMentions("@Body() dto: UpdateDto, @Query() q: FilterDto", []string{"FilterDto", "Update", "UpdateDto"})
	assert.Equal(t, []string{"FilterDto", "UpdateDto"}, got)
	assert.Empty(t, DtoMentions("", []string{"FilterDto"}))
}

func TestResolveCalls(t *testing.T) {
	t.Parallel()

	injected := []extract.Injection{{Property: "customersService", Type: "CustomersService"}}

	t.Run("resolved through injection", func(t *testing.T) {
		t.Parallel()
		calls := ResolveCalls("findOne(id) {\n  return this.customersService.findOne(id);\n}", injected)
		require.Len(t, calls, 1)
		target, method := calls[0].Pair()
		assert.Equal(t, "CustomersService", target)
		assert.Equal(t, "findOne", method)
		assert.True(t, calls[0].Resolved)
	})

	t.Run("unresolved keeps raw property", func(t *testing.T) {
		t.Parallel()
		calls := ResolveCalls("this.logger.warn('x'); this.customersService.remove(id); this.logger.warn('y');", injected)
		require.Len(t, calls, 3)
		assert.Equal(t, CallTarget{Property: "logger", Target: "logger", Method: "warn"}, calls[0])
		assert.Equal(t, CallTarget{Resolved: true, Property: "customersService", Target: "CustomersService", Method: "remove"}, calls[1])
		assert.Equal(t, calls[0], calls[2])
	})

	t.Run("no calls", func(t *testing.T) {
		t.Parallel()
		calls := ResolveCalls("return 1;", nil)
		assert.NotNil(t, calls)
		assert.Empty(t, calls)
	})
}

func TestFullPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, route, want string
	}{
		{"customers", ":id", "/customers/:id"},
		{"/customers/", "/:id/", "/customers/:id"},
		{"customers", "", "/customers"},
		{"", ":id", "/:id"},
		{"/", "", "/"},
		{"", "", "/"},
		{"/", "/", "/"},
		{"api/v1", "health", "/api/v1/health"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FullPath(tt.base, tt.route), "%q + %q", tt.base, tt.route)
	}
}
