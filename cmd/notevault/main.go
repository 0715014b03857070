package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mwantia/notevault/cmd/notevault/cli"
	"github.com/mwantia/notevault/cmd/notevault/cli/client"
	"github.com/mwantia/notevault/cmd/notevault/cli/server"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())

	root.AddCommand(server.NewAgentCommand())
	root.AddCommand(server.NewConfigCommand())
	root.AddCommand(server.NewDatabaseCommand())

	root.AddCommand(client.NewRecordCommand())
	root.AddCommand(client.NewFileCommand())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
