package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/notevault/internal/agent"
	"github.com/mwantia/notevault/pkg/vault"
	"github.com/spf13/cobra"

	config "github.com/mwantia/notevault/internal/config/server"
)

// withCoordinator loads the configuration, wires a Coordinator and runs fn as
// the configured owner.
func withCoordinator(cmd *cobra.Command, fn func(ctx context.Context, owner string, c *vault.Coordinator) error) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load server configuration: %w", err)
	}
	if cfg.Owner == "" {
		return fmt.Errorf("no owner configured, use --owner or NOTEVAULT_OWNER")
	}

	ctx := cmd.Context()
	a := agent.NewAgent(cfg)
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}()

	if err := a.Setup(ctx); err != nil {
		return err
	}

	coordinator, err := container.Resolve[*vault.Coordinator](ctx, a.Services())
	if err != nil {
		return fmt.Errorf("failed to resolve coordinator: %w", err)
	}
	return fn(ctx, cfg.Owner, coordinator)
}

func readFiles(paths []string) ([]vault.File, error) {
	files := make([]vault.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read '%s': %w", path, err)
		}
		files = append(files, vault.File{
			Name: filepath.Base(path),
			Data: data,
		})
	}
	return files, nil
}

// writePayload writes data to output, or to w when output is empty or "-".
func writePayload(w io.Writer, output string, payload *vault.Payload) error {
	if output == "" || output == "-" {
		_, err := w.Write(payload.Data)
		return err
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		output = filepath.Join(output, payload.Name)
	}
	return os.WriteFile(output, payload.Data, 0644)
}
