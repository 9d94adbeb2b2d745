package repositories

import (
	"errors"
	"testing"

	"github.com/desertthunder/logomatch/internal/models"
	"github.com/desertthunder/logomatch/internal/shared"
)

func TestRunRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRunRepository(db)
			run := newTestRun("")

			if err := repo.Create(run); err == nil {
				t.Fatal("expected validation error for empty playlist path")
			}

			var sequence int
			if err := db.QueryRow("SELECT value FROM runs_sequence WHERE id = 1").Scan(&sequence); err != nil {
				t.Fatalf("failed to read sequence: %v", err)
			}
			if sequence != 0 {
				t.Errorf("invalid run consumed a sequence number: %d", sequence)
			}
		})

		t.Run("DuplicateID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRunRepository(db)
			first := newTestRun("tv.m3u", espnMatch)
			first.SetID("same")
			if err := repo.Create(first); err != nil {
				t.Fatalf("failed to create first run: %v", err)
			}

			second := newTestRun("tv.m3u", espnMatch)
			second.SetID("same")
			if err := repo.Create(second); err == nil {
				t.Fatal("expected error when creating run with duplicate ID")
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if err := NewRunRepository(db).Create(newTestRun("tv.m3u")); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewRunRepository(db).Get("nonexistent-id")
			if !errors.Is(err, shared.ErrRunNotFound) {
				t.Fatalf("expected ErrRunNotFound, got %v", err)
			}
		})
	})

	t.Run("Find", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewRunRepository(db).Find("deadbeef")
			if !errors.Is(err, shared.ErrRunNotFound) {
				t.Fatalf("expected ErrRunNotFound, got %v", err)
			}
		})

		t.Run("Ambiguous", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRunRepository(db)
			for _, id := range []string{"abc-1", "abc-2"} {
				run := newTestRun("tv.m3u")
				run.SetID(id)
				if err := repo.Create(run); err != nil {
					t.Fatalf("failed to create run: %v", err)
				}
			}

			_, err := repo.Find("abc")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("Empty", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewRunRepository(db).Find("")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Fatalf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			run := newTestRun("tv.m3u")
			run.SetID("missing")

			err := NewRunRepository(db).Update(run)
			if !errors.Is(err, shared.ErrRunNotFound) {
				t.Fatalf("expected ErrRunNotFound, got %v", err)
			}
		})

		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			run := models.NewRun(1, models.RunParams{ListingURL: "x", PlaylistPath: "y", Threshold: 2})
			if err := NewRunRepository(db).Update(run); err == nil {
				t.Fatal("expected validation error")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			err := NewRunRepository(db).Delete("nonexistent-id")
			if !errors.Is(err, shared.ErrRunNotFound) {
				t.Fatalf("expected ErrRunNotFound, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewRunRepository(db).List(nil); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("NextSequence", func(t *testing.T) {
		t.Run("MissingTable", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if _, err := NextSequence(db, "nope"); err == nil {
				t.Fatal("expected error for missing sequence table")
			}
		})
	})
}
