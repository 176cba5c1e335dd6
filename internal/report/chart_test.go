package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/portfolio"
	"github.com/quantfolio/quantfolio/internal/storage/archive"
)

func sampleStates(n int) []portfolio.State {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	states := make([]portfolio.State, n)
	value := 1000.0
	for i := range states {
		states[i] = portfolio.State{Time: base.AddDate(0, 0, i), TotalValue: value}
		value *= 1.002
	}
	return states
}

func TestEquityChart(t *testing.T) {
	png, err := EquityChart(sampleStates(60))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}
}

func TestEquityChart_TooShort(t *testing.T) {
	if _, err := EquityChart(sampleStates(1)); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}
}

func TestStore(t *testing.T) {
	store, err := archive.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := NewGenerator(&fakeProvider{}, store, nil)
	ctx := context.Background()

	r, err := g.Generate(ctx, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Store(ctx, r); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	base := "reports/" + r.GeneratedAt.Format("2006-01-02") + "/" + r.ID
	for _, name := range []string{"/report.json", "/report.txt", "/equity.png"} {
		ok, err := store.Exists(ctx, base+name)
		if err != nil {
			t.Fatalf("exists check failed: %v", err)
		}
		if !ok {
			t.Errorf("expected %s to be archived", name)
		}
	}
}

func TestStore_NoStorageConfigured(t *testing.T) {
	g := NewGenerator(&fakeProvider{}, nil, nil)

	r, err := g.Generate(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Store(context.Background(), r); !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("got %v, want ErrConfigMissing", err)
	}
}
