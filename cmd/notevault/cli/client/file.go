package client

import (
	"context"
	"fmt"

	"github.com/mwantia/notevault/pkg/vault"
	"github.com/spf13/cobra"
)

func NewFileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage attachments",
		Long:  "Download, list and delete the attachments of the configured owner.",
	}

	cmd.AddCommand(NewFileGetCommand())
	cmd.AddCommand(NewFileLegacyCommand())
	cmd.AddCommand(NewFileRemoveCommand())
	cmd.AddCommand(NewFileListCommand())

	return cmd
}

func NewFileGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Download an attachment",
		Long:  "Writes the content of an active attachment to --output, or to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				payload, err := c.FetchFileBytes(ctx, args[0], owner)
				if err != nil {
					return err
				}
				return writePayload(cmd.OutOrStdout(), output, payload)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default is stdout)")

	return cmd
}

func NewFileLegacyCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "legacy <record-id>",
		Short: "Download the inline file of a record",
		Long:  "Writes the inline file stored on a record itself, as kept by records created before attachments existed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				payload, err := c.FetchLegacyFile(ctx, args[0], owner)
				if err != nil {
					return err
				}
				return writePayload(cmd.OutOrStdout(), output, payload)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default is stdout)")

	return cmd
}

func NewFileRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an attachment",
		Long:  "Deactivates an attachment and detaches it from its record. Deleting it again is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				if err := c.DeleteFile(ctx, args[0], owner); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted file %s\n", args[0])
				return nil
			})
		},
	}

	return cmd
}

func NewFileListCommand() *cobra.Command {
	var humanReadable bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List attachments",
		Long:  "Lists every active attachment of the configured owner, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				assets, err := c.ListFiles(ctx, owner)
				if err != nil {
					return err
				}
				return printAssets(cmd.OutOrStdout(), assets, humanReadable)
			})
		},
	}

	cmd.Flags().BoolVarP(&humanReadable, "human", "H", false, "Enable human-readable format")

	return cmd
}
