package prefs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdexport/internal/theme"
)

// openStores returns one fresh store per backend.
func openStores(t *testing.T) map[string]StoreCloser {
	t.Helper()

	dir := t.TempDir()
	db, err := OpenSQLite(filepath.Join(dir, "prefs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return map[string]StoreCloser{
		"file":   NewFileStore(filepath.Join(dir, "nested", "prefs.yaml")),
		"sqlite": db,
	}
}

func TestStore_LoadDefaults(t *testing.T) {
	t.Parallel()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(Default(), got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		save Prefs
		want Prefs
	}{
		{
			name: "all fields",
			save: Prefs{Markdown: "# Draft\n>>note<<", Theme: theme.Nature, DarkMode: true},
			want: Prefs{Markdown: "# Draft\n>>note<<", Theme: theme.Nature, DarkMode: true},
		},
		{
			name: "empty markdown loads welcome",
			save: Prefs{Theme: theme.Minimal},
			want: Prefs{Markdown: WelcomeMarkdown, Theme: theme.Minimal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for name, s := range openStores(t) {
				ctx := context.Background()
				if err := s.Save(ctx, tt.save); err != nil {
					t.Fatalf("%s: Save() error = %v", name, err)
				}
				got, err := s.Load(ctx)
				if err != nil {
					t.Fatalf("%s: Load() error = %v", name, err)
				}
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("%s: Load() mismatch (-want +got):\n%s", name, diff)
				}
			}
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			if err := s.Save(ctx, Prefs{Markdown: "one", Theme: theme.Vintage, DarkMode: true}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			second := Prefs{Markdown: "two", Theme: theme.Modern}
			if err := s.Save(ctx, second); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(second, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_SaveRejectsUnknownTheme(t *testing.T) {
	t.Parallel()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := s.Save(context.Background(), Prefs{Markdown: "x", Theme: "neon"})
			if !errors.Is(err, theme.ErrUnknownTheme) {
				t.Errorf("Save() error = %v, want ErrUnknownTheme", err)
			}
		})
	}
}

func TestFileStore_StaleTheme(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("markdown: hi\ntheme: retro\ndarkMode: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Prefs{Markdown: "hi", Theme: theme.Default, DarkMode: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_EmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("markdown: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStore(path).Load(context.Background())
	if !errors.Is(err, ErrStore) {
		t.Errorf("Load() error = %v, want ErrStore", err)
	}
}

func TestFileStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	if _, err := s.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
	if err := s.Save(ctx, Default()); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}

func TestSQLiteStore_StoresOneRowPerKey(t *testing.T) {
	t.Parallel()

	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, Prefs{Markdown: "m", Theme: theme.Vintage, DarkMode: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM prefs ORDER BY key")
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	defer rows.Close()

	got := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			t.Fatal(err)
		}
		got[k] = v
	}
	want := map[string]string{"darkMode": "true", "markdown": "m", "theme": "vintage"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_Closed(t *testing.T) {
	t.Parallel()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	_ = s.Close()

	if _, err := s.Load(context.Background()); !errors.Is(err, ErrStore) {
		t.Errorf("Load() error = %v, want ErrStore", err)
	}
	if err := s.Save(context.Background(), Default()); !errors.Is(err, ErrStore) {
		t.Errorf("Save() error = %v, want ErrStore", err)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	fs, err := Open("file", filepath.Join(dir, "p.yaml"))
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	if _, ok := fs.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", fs)
	}

	db, err := Open("SQLite", filepath.Join(dir, "p.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	defer db.Close()
	if _, ok := db.(*SQLiteStore); !ok {
		t.Errorf("Open(sqlite) = %T, want *SQLiteStore", db)
	}

	if _, err := Open("redis", ""); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(redis) error = %v, want ErrUnknownBackend", err)
	}
}
