package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/mvp-joe/project-atlas/internal/analyzer"
	"github.com/mvp-joe/project-atlas/internal/resolve"
)

// Labeler supplies domain display labels.
type Labeler interface {
	DomainLabel(key, lang string) string
}

// RunMeta describes one export.
type RunMeta struct {
	RunID       string // generated when empty
	GeneratedAt time.Time
	RootDir     string
	Strategy    string
	Branch      string
	Commit      string
	Labels      Labeler // nil stores raw keys
}

// Export writes a snapshot as a new run and returns its id. Nothing is
// written if any insert fails.
func (s *Store) Export(ctx context.Context, snap *analyzer.Snapshot, meta RunMeta) (string, error) {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	w := &runWriter{tx: tx, runID: meta.RunID, snap: snap}

	_, err = sq.Insert("runs").
		Columns("run_id", "generated_at", "root_dir", "strategy", "branch", "commit_sha").
		Values(meta.RunID, meta.GeneratedAt.UTC().Format(TimeLayout), meta.RootDir, meta.Strategy, meta.Branch, meta.Commit).
		RunWith(tx).
		Exec()
	if err != nil {
		return "", fmt.Errorf("failed to write run: %w", err)
	}

	steps := []struct {
		name string
		fn   func(*analyzer.Snapshot) error
	}{
		{"controllers", w.writeControllers},
		{"services", w.writeServices},
		{"dto classes", w.writeDtos},
		{"frontend exports", w.writeFrontend},
		{"dto usage", w.writeDtoUsage},
		{"call targets", w.writeCalls},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := step.fn(snap); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", step.name, err)
		}
	}
	if err := w.writeModules(snap, meta.Labels); err != nil {
		return "", fmt.Errorf("failed to write modules: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return meta.RunID, nil
}

// PruneRuns deletes all but the keep most recent runs and returns how many
// were removed. keep <= 0 keeps everything.
func (s *Store) PruneRuns(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	runs, err := s.Runs()
	if err != nil {
		return 0, err
	}
	if len(runs) <= keep {
		return 0, nil
	}

	ids := make([]string, 0, len(runs)-keep)
	for _, r := range runs[keep:] {
		ids = append(ids, r.ID)
	}
	res, err := sq.Delete("runs").
		Where(sq.Eq{"run_id": ids}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return int(n), nil
}

type runWriter struct {
	tx    *sql.Tx
	runID string
	snap  *analyzer.Snapshot
}

// moduleKey returns the module of file, or nil for unaggregated files.
func (w *runWriter) moduleKey(file string) any {
	if key, ok := w.snap.ModuleOf(file); ok {
		return key
	}
	return nil
}

func (w *runWriter) insert(table string, columns []string, values ...any) (int64, error) {
	res, err := sq.Insert(table).
		Columns(append([]string{"run_id"}, columns...)...).
		Values(append([]any{w.runID}, values...)...).
		RunWith(w.tx).
		Exec()
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (w *runWriter) writeControllers(snap *analyzer.Snapshot) error {
	for _, c := range snap.Controllers {
		id, err := w.insert("controllers",
			[]string{"file_path", "name", "base_route", "module_key"},
			c.File, c.Name, c.BaseRoute, w.moduleKey(c.File))
		if err != nil {
			return err
		}

		for _, m := range c.Methods {
			var verb, route, fullPath any
			if m.HasEndpoint() {
				verb, route, fullPath = m.HTTPMethod, m.Route, resolve.FullPath(c.BaseRoute, m.Route)
			}
			decorators, err := json.Marshal(m.Decorators)
			if err != nil {
				return err
			}
			_, err = w.insert("endpoints",
				[]string{"controller_id", "name", "params", "http_method", "route", "full_path",
					"roles", "decorators", "signature", "start_line", "end_line"},
				id, m.Name, m.Params, verb, route, fullPath,
				strings.Join(m.Roles, ","), string(decorators), m.Signature, m.StartLine, m.EndLine)
			if err != nil {
				return err
			}
		}

		for _, inj := range c.Injected {
			_, err := w.insert("injections",
				[]string{"owner_kind", "owner", "file_path", "property", "type"},
				"controller", c.Name, c.File, inj.Property, inj.Type)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *runWriter) writeServices(snap *analyzer.Snapshot) error {
	for _, svc := range snap.Services {
		id, err := w.insert("services",
			[]string{"file_path", "name", "module_key"},
			svc.File, svc.Name, w.moduleKey(svc.File))
		if err != nil {
			return err
		}

		for _, m := range svc.Methods {
			_, err := w.insert("service_methods",
				[]string{"service_id", "name", "params", "start_line", "end_line"},
				id, m.Name, m.Params, m.StartLine, m.EndLine)
			if err != nil {
				return err
			}
		}

		for _, inj := range svc.Injected {
			_, err := w.insert("injections",
				[]string{"owner_kind", "owner", "file_path", "property", "type"},
				"service", svc.Name, svc.File, inj.Property, inj.Type)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *runWriter) writeDtos(snap *analyzer.Snapshot) error {
	for _, f := range snap.DtoFiles {
		for _, class := range f.Classes {
			id, err := w.insert("dto_classes",
				[]string{"file_path", "name", "module_key"},
				f.File, class.Name, w.moduleKey(f.File))
			if err != nil {
				return err
			}

			for _, p := range class.Properties {
				decorators, err := json.Marshal(p.Decorators)
				if err != nil {
					return err
				}
				_, err = w.insert("dto_properties",
					[]string{"dto_class_id", "name", "type_annotation", "decorators"},
					id, p.Name, p.TypeAnnotation, string(decorators))
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *runWriter) writeFrontend(snap *analyzer.Snapshot) error {
	for _, f := range snap.FrontendFiles {
		for _, e := range f.Exports {
			_, err := w.insert("frontend_exports",
				[]string{"file_path", "name", "kind", "signature", "start_line", "end_line", "module_key"},
				f.File, e.Name, e.Kind, e.Signature, e.StartLine, e.EndLine, w.moduleKey(f.File))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *runWriter) writeDtoUsage(snap *analyzer.Snapshot) error {
	for _, name := range snap.DtoIndex.Names() {
		for _, site := range snap.DtoUsage[name] {
			_, err := w.insert("dto_usage",
				[]string{"dto_name", "controller", "method", "file_path"},
				name, site.Controller.Name, site.Method.Name, site.Controller.File)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *runWriter) writeCalls(snap *analyzer.Snapshot) error {
	for _, mc := range snap.Calls {
		for _, t := range mc.Targets {
			_, err := w.insert("call_targets",
				[]string{"owner_kind", "owner", "method", "property", "target", "call", "resolved"},
				string(mc.Kind), mc.Owner, mc.Method, t.Property, t.Target, t.Method, t.Resolved)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *runWriter) writeModules(snap *analyzer.Snapshot, labels Labeler) error {
	for _, key := range snap.Modules.Keys() {
		m := snap.Modules[key]
		en, ar := key, key
		if labels != nil {
			en, ar = labels.DomainLabel(key, "en"), labels.DomainLabel(key, "ar")
		}
		_, err := w.insert("modules",
			[]string{"key", "label_en", "label_ar", "controllers", "services", "dtos", "frontend"},
			key, en, ar, len(m.Controllers), len(m.Services), len(m.Dtos), len(m.Frontend))
		if err != nil {
			return err
		}
	}
	return nil
}
