package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvp-joe/project-atlas/internal/analyzer"
	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/mvp-joe/project-atlas/internal/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Store:
// - CreateSchema is idempotent and records the schema version
// - Export writes every table under one generated run id
// - Non-endpoint controller methods keep NULL verb and path
// - Module rows carry labels from the Labeler
// - Runs lists newest first; RunCounts is per run
// - PruneRuns removes old runs and their rows
// - Open creates the database file and its directory

func testSnapshot(t *testing.T) *analyzer.Snapshot {
	t.Helper()
	result := &extract.Result{
		Controllers: []extract.ControllerMeta{{
			File:      "api/src/payments/payments.controller.ts",
			Name:      "PaymentsController",
			BaseRoute: "payments",
			Injected:  []extract.Injection{{Property: "paymentsService", Type: "PaymentsService"}},
			Methods: []extract.MethodMeta{
				{
					Name: "create", Params: "@Body() dto: CreatePaymentDto", Decorators: []string{"@Post()"},
					HTTPMethod: "POST", Roles: []string{"manager", "staff"}, StartLine: 8, EndLine: 10,
					Snippet: "create(@Body() dto: CreatePaymentDto) {\n  return this.paymentsService.create(dto);\n}",
				},
				{Name: "audit", Params: "", Decorators: []string{"@UseInterceptors(X)"}, Roles: []string{}, StartLine: 12, EndLine: 12},
			},
		}},
		Services: []extract.ServiceMeta{{
			File:     "api/src/payments/payments.service.ts",
			Name:     "PaymentsService",
			Injected: []extract.Injection{{Property: "supabase", Type: "SupabaseService"}},
			Methods:  []extract.ServiceMethodMeta{{Name: "create", Params: "dto", StartLine: 5, EndLine: 7}},
		}},
		DtoFiles: []extract.DtoFileMeta{{
			File: "api/src/payments/dto/create-payment.dto.ts",
			Classes: []extract.DtoClassMeta{{
				Name: "CreatePaymentDto",
				Properties: []extract.DtoPropertyMeta{
					{Name: "amount", TypeAnnotation: "number", Decorators: []string{"@IsNumber()"}},
					{Name: "note", TypeAnnotation: "string", Decorators: []string{}},
				},
			}},
		}},
		FrontendFiles: []extract.FrontendFileMeta{{
			File:    "Web/src/App.tsx",
			Exports: []extract.FrontendExport{{Name: "App", Kind: extract.ExportDefault, StartLine: 1, EndLine: 3}},
		}},
	}
	snap, err := analyzer.Build(result, modules.Roots{Backend: "api/src", Frontend: "Web/src"})
	require.NoError(t, err)
	return snap
}

type upperLabels struct{}

func (upperLabels) DomainLabel(key, lang string) string { return lang + ":" + key }

func TestCreateSchema_Idempotent(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	require.NoError(t, CreateSchema(db))

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestExport(t *testing.T) {
	t.Parallel()

	store := New(NewTestDB(t))
	runID, err := store.Export(context.Background(), testSnapshot(t), RunMeta{
		RootDir:  "/repo",
		Strategy: "braces",
		Labels:   upperLabels{},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	counts, err := store.RunCounts(runID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"controllers":      1,
		"endpoints":        2,
		"injections":       2,
		"services":         1,
		"service_methods":  1,
		"dto_classes":      1,
		"dto_properties":   2,
		"frontend_exports": 1,
		"modules":          2,
		"dto_usage":        1,
		"call_targets":     1,
	}, counts)

	endpoints, err := store.Endpoints(runID)
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.Equal(t, EndpointRow{
		Controller: "PaymentsController",
		File:       "api/src/payments/payments.controller.ts",
		Method:     "create",
		HTTPMethod: "POST",
		FullPath:   "/payments",
		Roles:      "manager,staff",
	}, endpoints[0])

	var labelEn, labelAr string
	require.NoError(t, store.DB().QueryRow(
		"SELECT label_en, label_ar FROM modules WHERE run_id = ? AND key = 'payments'", runID,
	).Scan(&labelEn, &labelAr))
	assert.Equal(t, "en:payments", labelEn)
	assert.Equal(t, "ar:payments", labelAr)

	var moduleKey string
	require.NoError(t, store.DB().QueryRow(
		"SELECT module_key FROM frontend_exports WHERE run_id = ?", runID,
	).Scan(&moduleKey))
	assert.Equal(t, "frontend", moduleKey)

	var resolved bool
	var target string
	require.NoError(t, store.DB().QueryRow(
		"SELECT target, resolved FROM call_targets WHERE run_id = ?", runID,
	).Scan(&target, &resolved))
	assert.Equal(t, "PaymentsService", target)
	assert.True(t, resolved)
}

func TestRunsAndPrune(t *testing.T) {
	t.Parallel()

	store := New(NewTestDB(t))
	snap := testSnapshot(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		_, err := store.Export(context.Background(), snap, RunMeta{
			RunID: id, GeneratedAt: base.Add(time.Duration(i) * time.Hour), RootDir: "/repo", Strategy: "braces",
			Branch: "main", Commit: id + "-sha",
		})
		require.NoError(t, err)
	}

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, base.Add(2*time.Hour), runs[0].GeneratedAt)
	assert.Equal(t, "main", runs[0].Branch)
	assert.Equal(t, "run-c-sha", runs[0].Commit)

	removed, err := store.PruneRuns(1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	counts, err := store.RunCounts("run-a")
	require.NoError(t, err)
	for table, n := range counts {
		assert.Zero(t, n, table)
	}

	removed, err = store.PruneRuns(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "metadata.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.Export(context.Background(), testSnapshot(t), RunMeta{RootDir: "/repo", Strategy: "braces"})
	require.NoError(t, err)

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].ID)
}
