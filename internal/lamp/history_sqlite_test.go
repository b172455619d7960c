package lamp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-lamps/migrations"
)

func setupHistoryTestDB(t *testing.T) *SQLiteHistory {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if _, err := db.Migrate(ctx, migrations.FS); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewSQLiteHistory(db.DB)
}

func TestSQLiteHistory_RecordAndRecent(t *testing.T) {
	repo := setupHistoryTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	changes := []Change{
		{Lamp: Lamp{Lamp1, StatusOff}, Source: SourceStartup, At: base},
		{Lamp: Lamp{Lamp1, StatusOn}, Source: SourceAPI, At: base.Add(time.Second)},
		{Lamp: Lamp{Lamp2, StatusOn}, Source: SourceAPI, At: base.Add(2 * time.Second)},
		{Lamp: Lamp{Lamp1, StatusOff}, Source: SourceMQTT, At: base.Add(3 * time.Second)},
	}
	for _, c := range changes {
		if err := repo.Record(ctx, c); err != nil {
			t.Fatalf("Record(%+v) error = %v", c, err)
		}
	}

	entries, err := repo.Recent(ctx, Lamp1, time.Time{}, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(entries))
	}

	// Newest first
	if entries[0].Status != StatusOff || entries[0].Source != SourceMQTT {
		t.Errorf("entries[0] = %+v, want off via mqtt", entries[0])
	}
	if entries[1].Status != StatusOn {
		t.Errorf("entries[1] = %+v, want on", entries[1])
	}
	if !entries[2].CreatedAt.Equal(base) {
		t.Errorf("entries[2].CreatedAt = %v, want %v", entries[2].CreatedAt, base)
	}
	for _, e := range entries {
		if e.Lamp != Lamp1 {
			t.Errorf("entry for %s returned in lamp1 history", e.Lamp)
		}
	}
}

func TestSQLiteHistory_SubSecondOrdering(t *testing.T) {
	repo := setupHistoryTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A whole-second timestamp followed by a fractional one in the same second.
	if err := repo.Record(ctx, Change{Lamp: Lamp{Lamp1, StatusOn}, At: base}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := repo.Record(ctx, Change{Lamp: Lamp{Lamp1, StatusOff}, At: base.Add(500 * time.Millisecond)}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := repo.Recent(ctx, Lamp1, time.Time{}, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Status != StatusOff {
		t.Errorf("Recent() = %+v, want the later off entry first", entries)
	}
	if entries[1].Source != SourceAPI {
		t.Errorf("empty source recorded as %q, want %q", entries[1].Source, SourceAPI)
	}
}

func TestSQLiteHistory_Limit(t *testing.T) {
	repo := setupHistoryTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		c := Change{Lamp: Lamp{Lamp4, StatusOn}, Source: SourceAPI, At: base.Add(time.Duration(i) * time.Second)}
		if err := repo.Record(ctx, c); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := repo.Recent(ctx, Lamp4, time.Time{}, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Recent(limit=2) returned %d entries", len(entries))
	}
}

func TestSQLiteHistory_Since(t *testing.T) {
	repo := setupHistoryTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		c := Change{Lamp: Lamp{Lamp2, StatusOn}, Source: SourceAPI, At: base.Add(time.Duration(i) * time.Second)}
		if err := repo.Record(ctx, c); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		since time.Time
		limit int
		want  []time.Time
	}{
		{
			name:  "strictly after since",
			since: base.Add(2 * time.Second),
			limit: 10,
			want:  []time.Time{base.Add(4 * time.Second), base.Add(3 * time.Second)},
		},
		{
			name:  "limit applies after since",
			since: base,
			limit: 2,
			want:  []time.Time{base.Add(4 * time.Second), base.Add(3 * time.Second)},
		},
		{
			name:  "since in another zone",
			since: base.Add(3 * time.Second).In(time.FixedZone("CET", 3600)),
			limit: 10,
			want:  []time.Time{base.Add(4 * time.Second)},
		},
		{
			name:  "nothing after since",
			since: base.Add(time.Minute),
			limit: 10,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.Recent(ctx, Lamp2, tt.since, tt.limit)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("Recent() returned %d entries, want %d", len(entries), len(tt.want))
			}
			for i, at := range tt.want {
				if !entries[i].CreatedAt.Equal(at) {
					t.Errorf("entries[%d].CreatedAt = %v, want %v", i, entries[i].CreatedAt, at)
				}
			}
		})
	}
}

func TestSQLiteHistory_Validation(t *testing.T) {
	repo := setupHistoryTestDB(t)
	ctx := context.Background()

	if err := repo.Record(ctx, Change{Lamp: Lamp{"lamp9", StatusOn}}); !errors.Is(err, ErrUnknownLamp) {
		t.Errorf("Record() error = %v, want ErrUnknownLamp", err)
	}
	if _, err := repo.Recent(ctx, "lamp9", time.Time{}, 10); !errors.Is(err, ErrUnknownLamp) {
		t.Errorf("Recent() error = %v, want ErrUnknownLamp", err)
	}

	entries, err := repo.Recent(ctx, Lamp3, time.Time{}, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Recent() on empty history = %d entries, want 0", len(entries))
	}
}

func TestHistoryObserver(t *testing.T) {
	repo := setupHistoryTestDB(t)
	svc, _ := newInitialisedService(t, Options{})
	svc.AddObserver(HistoryObserver(repo, nil))

	ctx := context.Background()
	if _, err := svc.Update(ctx, Lamp{Name: Lamp2, Status: StatusOn}, SourceAPI); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	entries, err := repo.Recent(ctx, Lamp2, time.Time{}, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Status != StatusOn {
		t.Errorf("Recent() = %+v, want one on entry", entries)
	}
}
