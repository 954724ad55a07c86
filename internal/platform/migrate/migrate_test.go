package migrate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"nutrichef/migrations"
)

func TestSplitTableName(t *testing.T) {
	cases := []struct {
		in, schema, table string
	}{
		{in: "saved_recipes", schema: "", table: "saved_recipes"},
		{in: "public.saved_recipes", schema: "public", table: "saved_recipes"},
	}
	for _, tc := range cases {
		schema, table := splitTableName(tc.in)
		if schema != tc.schema || table != tc.table {
			t.Fatalf("splitTableName(%q) = %q, %q", tc.in, schema, table)
		}
	}
}

func TestGooseLoggerWritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := gooseSlogLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	logger.Printf("OK   %s (%s)\n", "00001_app_schema.sql", "12ms")

	out := buf.String()
	if !strings.Contains(out, "00001_app_schema.sql") || !strings.Contains(out, "component=goose") {
		t.Fatalf("unexpected log output %q", out)
	}

	// A nil logger is silent.
	gooseSlogLogger{}.Printf("ignored")
}

func TestEmbeddedMigrationsHaveGooseSections(t *testing.T) {
	names, err := fs.Glob(migrations.Files, "*.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(names) < 3 {
		t.Fatalf("expected embedded migrations, got %v", names)
	}

	for _, name := range names {
		data, err := fs.ReadFile(migrations.Files, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s is missing goose annotations", name)
		}
	}
}

type versionStoreStub struct {
	tables  map[string]bool
	version int64
	failOn  string
	checked []string
	stamped []int64
}

func (s *versionStoreStub) TableExists(_ context.Context, name string) (bool, error) {
	s.checked = append(s.checked, name)
	if s.failOn == "tables" {
		return false, errors.New("connection refused")
	}
	return s.tables[name], nil
}

func (s *versionStoreStub) Version(context.Context) (int64, error) {
	if s.failOn == "version" {
		return 0, errors.New("permission denied")
	}
	return s.version, nil
}

func (s *versionStoreStub) Stamp(_ context.Context, version int64) error {
	if s.failOn == "stamp" {
		return errors.New("read-only transaction")
	}
	s.stamped = append(s.stamped, version)
	s.version = version
	return nil
}

func TestBootstrapBaseline(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := []struct {
		name    string
		store   *versionStoreStub
		stamped []int64
		wantErr string
	}{
		{name: "fresh database", store: &versionStoreStub{}},
		{name: "existing app tables", store: &versionStoreStub{tables: map[string]bool{"saved_recipes": true}}, stamped: []int64{baselineVersion}},
		{name: "already migrated", store: &versionStoreStub{tables: map[string]bool{"saved_recipes": true}, version: 3}},
		{name: "table check fails", store: &versionStoreStub{failOn: "tables"}, wantErr: "check app tables"},
		{name: "version check fails", store: &versionStoreStub{tables: map[string]bool{"saved_recipes": true}, failOn: "version"}, wantErr: "check goose version"},
		{name: "stamp fails", store: &versionStoreStub{tables: map[string]bool{"saved_recipes": true}, failOn: "stamp"}, wantErr: "set baseline"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := bootstrapBaseline(context.Background(), tc.store, logger)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("bootstrapBaseline returned error: %v", err)
			}
			if len(tc.store.checked) != 1 || tc.store.checked[0] != baselineTable {
				t.Fatalf("expected a check of %s, got %v", baselineTable, tc.store.checked)
			}
			if len(tc.store.stamped) != len(tc.stamped) || (len(tc.stamped) == 1 && tc.store.stamped[0] != tc.stamped[0]) {
				t.Fatalf("expected stamps %v, got %v", tc.stamped, tc.store.stamped)
			}
		})
	}
}

func TestBootstrapBaselineRunsOnce(t *testing.T) {
	store := &versionStoreStub{tables: map[string]bool{"saved_recipes": true}}
	for i := 0; i < 2; i++ {
		if err := bootstrapBaseline(context.Background(), store, nil); err != nil {
			t.Fatalf("bootstrapBaseline returned error: %v", err)
		}
	}
	if len(store.stamped) != 1 {
		t.Fatalf("expected a single stamp, got %v", store.stamped)
	}
}
