package localstore

import (
	"context"
	"os"
	"testing"

	"github.com/gymdesk/gymdesk/internal/models"
)

func sampleRoutines() []models.Routine {
	sets := "4x8"
	rest := "90s"
	id := "r1"
	return []models.Routine{
		{
			ID:     &id,
			Name:   "Fuerza",
			Status: "activa",
			Exercises: []models.Exercise{
				{Name: "Sentadillas", Sets: &sets, Rest: &rest, Done: true},
				{Name: "Plancha"},
			},
			Summary: map[string]any{"nivel": "Intermedio"},
		},
		{Name: "Solo Local", Status: "activa"},
		AssignTempID(models.Routine{Name: "Generada"}),
	}
}

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty store returned %d routines", len(got))
	}

	want := sampleRoutines()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d routines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("routine %d = %q, want %q", i, got[i].Name, want[i].Name)
		}
	}

	first := got[0]
	if models.Deref(first.ID) != "r1" {
		t.Errorf("id = %q, want r1", models.Deref(first.ID))
	}
	if len(first.Exercises) != 2 || !first.Exercises[0].Done || models.Deref(first.Exercises[0].Sets) != "4x8" {
		t.Errorf("exercises = %+v", first.Exercises)
	}
	if first.Exercises[1].Sets != nil {
		t.Errorf("missing sets decoded as %q", *first.Exercises[1].Sets)
	}
	if first.Summary["nivel"] != "Intermedio" {
		t.Errorf("summary = %v", first.Summary)
	}
	if got[1].ID != nil {
		t.Errorf("routine without id loaded with id %q", *got[1].ID)
	}
	if !IsTempID(models.Deref(got[2].ID)) {
		t.Errorf("temp id lost: %q", models.Deref(got[2].ID))
	}

	// Save replaces, it does not append.
	if err := s.Save(ctx, want[1:2]); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after replace: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Solo Local" {
		t.Errorf("after replace = %+v, want [Solo Local]", got)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesOnSave(t *testing.T) {
	s := NewMemory()
	routines := sampleRoutines()
	if err := s.Save(context.Background(), routines); err != nil {
		t.Fatal(err)
	}
	routines[0].Exercises[0].Name = "cambiado"

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Exercises[0].Name != "Sentadillas" {
		t.Errorf("store shares memory with caller: %q", got[0].Exercises[0].Name)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

// TestSQLiteStoreReopen verifies the list survives closing the database.
func TestSQLiteStoreReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSQLite(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), sampleRoutines()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Name != "Fuerza" {
		t.Errorf("reopened store = %+v", got)
	}
}

// TestPostgresStore needs a disposable database in GYMDESK_TEST_DSN.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("GYMDESK_TEST_DSN")
	if dsn == "" {
		t.Skip("GYMDESK_TEST_DSN not set")
	}
	if err := RunMigrations(dsn, "../../migrations"); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	s, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer s.Close()

	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestAssignTempID(t *testing.T) {
	r := AssignTempID(models.Routine{Name: "Nueva"})
	if !r.HasID() || !IsTempID(*r.ID) {
		t.Fatalf("id = %v, want local-<uuid>", r.ID)
	}
	if other := AssignTempID(models.Routine{Name: "Nueva"}); *other.ID == *r.ID {
		t.Error("temp ids repeat")
	}

	id := "abc123"
	kept := AssignTempID(models.Routine{ID: &id, Name: "Remota"})
	if *kept.ID != "abc123" {
		t.Errorf("existing id replaced: %q", *kept.ID)
	}
	if IsTempID("abc123") {
		t.Error("IsTempID(abc123) = true")
	}
}
