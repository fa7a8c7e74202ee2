package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is recorded in the metadata table on creation.
const SchemaVersion = "1"

// Tables lists every per-run table in insertion order.
var Tables = []string{
	"controllers",
	"endpoints",
	"injections",
	"services",
	"service_methods",
	"dto_classes",
	"dto_properties",
	"frontend_exports",
	"modules",
	"dto_usage",
	"call_targets",
}

// CreateSchema creates all tables and indexes if they do not exist yet.
// Uses a transaction so schema creation succeeds or fails as a whole.
//
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Dependency order: runs first, children after their parents.
	tables := []struct {
		name string
		ddl  string
	}{
		{"atlas_metadata", createMetadataTable},
		{"runs", createRunsTable},
		{"controllers", createControllersTable},
		{"endpoints", createEndpointsTable},
		{"injections", createInjectionsTable},
		{"services", createServicesTable},
		{"service_methods", createServiceMethodsTable},
		{"dto_classes", createDtoClassesTable},
		{"dto_properties", createDtoPropertiesTable},
		{"frontend_exports", createFrontendExportsTable},
		{"modules", createModulesTable},
		{"dto_usage", createDtoUsageTable},
		{"call_targets", createCallTargetsTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range getAllIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO atlas_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)`,
		SchemaVersion, now,
	); err != nil {
		return fmt.Errorf("failed to bootstrap atlas_metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// GetSchemaVersion returns the recorded schema version, or "0" for a
// database without schema.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='atlas_metadata'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check atlas_metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM atlas_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in atlas_metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

const createMetadataTable = `
CREATE TABLE IF NOT EXISTS atlas_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,                     -- UUID
    generated_at TEXT NOT NULL,                  -- ISO 8601
    root_dir TEXT NOT NULL,
    strategy TEXT NOT NULL,                      -- braces or treesitter
    branch TEXT NOT NULL DEFAULT '',
    commit_sha TEXT NOT NULL DEFAULT ''
)
`

const createControllersTable = `
CREATE TABLE IF NOT EXISTS controllers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    file_path TEXT NOT NULL,
    name TEXT NOT NULL,
    base_route TEXT NOT NULL,
    module_key TEXT                              -- NULL when outside the source roots
)
`

const createEndpointsTable = `
CREATE TABLE IF NOT EXISTS endpoints (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    controller_id INTEGER NOT NULL REFERENCES controllers(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    params TEXT NOT NULL,
    http_method TEXT,                            -- NULL for decorated non-endpoint methods
    route TEXT,
    full_path TEXT,
    roles TEXT NOT NULL,                         -- comma separated
    decorators TEXT NOT NULL,                    -- JSON array
    signature TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL
)
`

const createInjectionsTable = `
CREATE TABLE IF NOT EXISTS injections (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    owner_kind TEXT NOT NULL,                    -- controller or service
    owner TEXT NOT NULL,
    file_path TEXT NOT NULL,
    property TEXT NOT NULL,
    type TEXT NOT NULL
)
`

const createServicesTable = `
CREATE TABLE IF NOT EXISTS services (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    file_path TEXT NOT NULL,
    name TEXT NOT NULL,
    module_key TEXT
)
`

const createServiceMethodsTable = `
CREATE TABLE IF NOT EXISTS service_methods (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    service_id INTEGER NOT NULL REFERENCES services(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    params TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL
)
`

const createDtoClassesTable = `
CREATE TABLE IF NOT EXISTS dto_classes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    file_path TEXT NOT NULL,
    name TEXT NOT NULL,
    module_key TEXT
)
`

const createDtoPropertiesTable = `
CREATE TABLE IF NOT EXISTS dto_properties (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    dto_class_id INTEGER NOT NULL REFERENCES dto_classes(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    type_annotation TEXT NOT NULL,
    decorators TEXT NOT NULL                     -- JSON array
)
`

const createFrontendExportsTable = `
CREATE TABLE IF NOT EXISTS frontend_exports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    file_path TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,                          -- default or named
    signature TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    module_key TEXT
)
`

const createModulesTable = `
CREATE TABLE IF NOT EXISTS modules (
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    label_en TEXT NOT NULL,
    label_ar TEXT NOT NULL,
    controllers INTEGER NOT NULL,
    services INTEGER NOT NULL,
    dtos INTEGER NOT NULL,
    frontend INTEGER NOT NULL,
    PRIMARY KEY (run_id, key)
)
`

const createDtoUsageTable = `
CREATE TABLE IF NOT EXISTS dto_usage (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    dto_name TEXT NOT NULL,
    controller TEXT NOT NULL,
    method TEXT NOT NULL,
    file_path TEXT NOT NULL
)
`

const createCallTargetsTable = `
CREATE TABLE IF NOT EXISTS call_targets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    owner_kind TEXT NOT NULL,
    owner TEXT NOT NULL,
    method TEXT NOT NULL,
    property TEXT NOT NULL,
    target TEXT NOT NULL,                        -- injected type, or raw property when unresolved
    call TEXT NOT NULL,
    resolved INTEGER NOT NULL
)
`

func getAllIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_controllers_run ON controllers(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_endpoints_run ON endpoints(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_endpoints_controller ON endpoints(controller_id)",
		"CREATE INDEX IF NOT EXISTS idx_endpoints_full_path ON endpoints(full_path)",
		"CREATE INDEX IF NOT EXISTS idx_injections_run ON injections(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_injections_type ON injections(type)",
		"CREATE INDEX IF NOT EXISTS idx_services_run ON services(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_service_methods_service ON service_methods(service_id)",
		"CREATE INDEX IF NOT EXISTS idx_dto_classes_run ON dto_classes(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_dto_classes_name ON dto_classes(name)",
		"CREATE INDEX IF NOT EXISTS idx_dto_properties_class ON dto_properties(dto_class_id)",
		"CREATE INDEX IF NOT EXISTS idx_frontend_exports_run ON frontend_exports(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_dto_usage_run ON dto_usage(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_call_targets_run ON call_targets(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_call_targets_target ON call_targets(target)",
	}
}
