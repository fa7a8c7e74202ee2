package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for shared helpers:
// - StripQuotes removes one matching pair of ', " or ` and nothing else
// - titleCase capitalizes every letter run
// - classNameOf prefers the declared class and falls back to the file name
// - The word class inside a comment is not a declaration
// - splitTopLevel ignores commas nested in brackets
// - parseInjections reads visibility/readonly/name: Type segments
// - parseInjections skips segments without the injection shape
// - parseInjections skips leading parameter decorators
// - matchMethod accepts return types and rejects non-method lines

func TestStripQuotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "customers", StripQuotes(`'customers'`))
	assert.Equal(t, "customers", StripQuotes(`"customers"`))
	assert.Equal(t, ":id", StripQuotes("`:id`"))
	assert.Equal(t, "", StripQuotes(`''`))
	assert.Equal(t, `'mixed"`, StripQuotes(`'mixed"`))
	assert.Equal(t, "bare", StripQuotes("  bare "))
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Customers.Controller", titleCase("customers.controller"))
	assert.Equal(t, "Check-Availability", titleCase("check-availability"))
	assert.Equal(t, "Abc", titleCase("ABC"))
}

func TestClassNameOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PaymentsController",
		classNameOf("api/src/payments/payments.controller.ts", "export class PaymentsController extends Base {}"))
	assert.Equal(t, "Payments.Controller",
		classNameOf("api/src/payments/payments.controller.ts", "export const x = 1;"))
	assert.Equal(t, "BaseRepository",
		classNameOf("api/src/common/base.ts", "// Abstract class for repositories\nexport abstract class BaseRepository {}"))
	assert.Equal(t, "Payments.Service",
		classNameOf("api/src/payments/payments.service.ts", "// Service class used by the controller\nexport const x = 1;"))
}

func TestSplitTopLevel(t *testing.T) {
	t.Parallel()

	parts := splitTopLevel("a: Map<string, number>, b: (x, y) => void, c: C")

	assert.Equal(t, []string{"a: Map<string, number>", " b: (x, y) => void", " c: C"}, parts)
}

func TestParseInjections(t *testing.T) {
	t.Parallel()

	text := `export class CustomersController {
  constructor(
    private readonly customersService: CustomersService,
    public notes: NotesService,
    readonly audit: AuditService,
    @Inject(CACHE_MANAGER) private cache: Cache,
    { destructured }: Options,
  ) {}
}`

	got := parseInjections(text)

	assert.Equal(t, []Injection{
		{Property: "customersService", Type: "CustomersService"},
		{Property: "notes", Type: "NotesService"},
		{Property: "audit", Type: "AuditService"},
		{Property: "cache", Type: "Cache"},
	}, got)
}

func TestParseInjections_NoConstructor(t *testing.T) {
	t.Parallel()

	got := parseInjections("export class HealthController {}")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatchMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		name   string
		params string
		ok     bool
	}{
		{"findOne(@Param('id') id: string) {", "findOne", "@Param('id') id: string", true},
		{"async create(@Body() dto: CreateDto): Promise<Customer> {", "create", "@Body() dto: CreateDto", true},
		{"public async remove(id: string) {", "remove", "id: string", true},
		{"if (x) {", "if", "x", true},
		{"const x = foo(1);", "", "", false},
		{"return this.service.find(id);", "", "", false},
		{"items.forEach((x) => {", "", "", false},
	}
	for _, tt := range tests {
		name, params, ok := matchMethod(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.name, name, tt.line)
		assert.Equal(t, tt.params, params, tt.line)
	}
}
