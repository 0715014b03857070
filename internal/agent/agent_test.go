package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mwantia/fabric/pkg/container"
	config "github.com/mwantia/notevault/internal/config/server"
	"github.com/mwantia/notevault/pkg/db/store"
	"github.com/mwantia/notevault/pkg/vault"
)

func newTestAgent(t *testing.T) *NoteVaultAgent {
	t.Helper()

	cfg := config.GetServerDefault()
	cfg.Log.Level = "error"
	cfg.Metadata.SQLite.Path = filepath.Join(t.TempDir(), "agent.db")

	return NewAgent(&cfg)
}

func TestSetupWiresCoordinatorThroughContainer(t *testing.T) {
	ctx := context.Background()
	a := newTestAgent(t)
	t.Cleanup(func() { a.Close(context.Background()) })

	if err := a.Setup(ctx); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := a.Setup(ctx); err != nil {
		t.Fatalf("second setup: %v", err)
	}

	first, err := container.Resolve[*vault.Coordinator](ctx, a.Services())
	if err != nil {
		t.Fatalf("resolve coordinator: %v", err)
	}
	second, err := container.Resolve[*vault.Coordinator](ctx, a.Services())
	if err != nil {
		t.Fatalf("resolve coordinator again: %v", err)
	}
	if first != second {
		t.Fatalf("coordinator must be resolved as a singleton")
	}

	deps, err := container.Resolve[*vaultDependencies](ctx, a.Services())
	if err != nil {
		t.Fatalf("resolve dependencies: %v", err)
	}
	if deps.Database == nil || deps.AssetLog == nil || deps.RecordLog == nil || deps.VaultLog == nil {
		t.Fatalf("dependencies not injected: %+v", deps)
	}

	view, err := first.CreateWithFiles(ctx, "owner-a", "Wired", "", []vault.File{{Name: "a.txt", Data: []byte("a")}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(view.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(view.Attachments))
	}
}

func TestCloseClosesDatabaseThroughContainerCleanup(t *testing.T) {
	ctx := context.Background()
	a := newTestAgent(t)

	if err := a.Setup(ctx); err != nil {
		t.Fatalf("setup: %v", err)
	}
	database, err := container.Resolve[*store.Database](ctx, a.Services())
	if err != nil {
		t.Fatalf("resolve database: %v", err)
	}
	if err := database.Health(ctx); err != nil {
		t.Fatalf("health before close: %v", err)
	}

	if err := a.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := database.Health(ctx); err == nil {
		t.Fatalf("expected the database to be closed by container cleanup")
	}
}

func TestOpenDatabaseRecoversFromFailedConnect(t *testing.T) {
	a := newTestAgent(t)
	t.Cleanup(func() { a.Close(context.Background()) })

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.OpenDatabase(cancelled); err == nil {
		t.Fatalf("expected connect to fail with a cancelled context")
	}
	if a.database != nil {
		t.Fatalf("failed connect must not keep the database")
	}

	database, err := a.OpenDatabase(context.Background())
	if err != nil {
		t.Fatalf("open after failed connect: %v", err)
	}
	if err := database.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
