package client

import (
	"context"
	"fmt"

	"github.com/mwantia/notevault/pkg/db/store"
	"github.com/mwantia/notevault/pkg/vault"
	"github.com/spf13/cobra"
)

func NewRecordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage records",
		Long:  "Create, list, update and delete records of the configured owner and attach files to them.",
	}

	cmd.AddCommand(NewRecordCreateCommand())
	cmd.AddCommand(NewRecordListCommand())
	cmd.AddCommand(NewRecordGetCommand())
	cmd.AddCommand(NewRecordUpdateCommand())
	cmd.AddCommand(NewRecordRemoveCommand())
	cmd.AddCommand(NewRecordAttachCommand())

	return cmd
}

func NewRecordCreateCommand() *cobra.Command {
	var content string
	var paths []string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a record",
		Long:  "Creates a record and uploads every --file under it in the given order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(paths)
			if err != nil {
				return err
			}

			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				view, err := c.CreateWithFiles(ctx, owner, args[0], content, files)
				if view != nil {
					if perr := printRecord(cmd.OutOrStdout(), view, true); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "record content")
	cmd.Flags().StringArrayVarP(&paths, "file", "f", nil, "file to attach (repeatable)")

	return cmd
}

func NewRecordListCommand() *cobra.Command {
	var humanReadable bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List records",
		Long:  "Lists every record of the configured owner, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				views, err := c.ListRecords(ctx, owner)
				if err != nil {
					return err
				}
				return printRecords(cmd.OutOrStdout(), views, humanReadable)
			})
		},
	}

	cmd.Flags().BoolVarP(&humanReadable, "human", "H", false, "Enable human-readable format")

	return cmd
}

func NewRecordGetCommand() *cobra.Command {
	var humanReadable bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a record and its attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				view, err := c.GetRecord(ctx, args[0], owner)
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), view, humanReadable)
			})
		},
	}

	cmd.Flags().BoolVarP(&humanReadable, "human", "H", false, "Enable human-readable format")

	return cmd
}

func NewRecordUpdateCommand() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change title or content of a record",
		Long:  "Changes the title and/or content of a record. Attachments are managed with 'record attach' and 'file rm'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := store.RecordUpdate{}
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("content") {
				update.Content = &content
			}
			if update.Title == nil && update.Content == nil {
				return fmt.Errorf("nothing to update, use --title or --content")
			}

			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				view, err := c.UpdateRecord(ctx, args[0], owner, update)
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), view, true)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new content")

	return cmd
}

func NewRecordRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a record",
		Long:  "Deletes a record and deactivates all of its attachments.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				report, err := c.DeleteRecord(ctx, args[0], owner)
				if err != nil {
					return err
				}
				printCascade(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}

	return cmd
}

func NewRecordAttachCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach <id> <file>...",
		Short: "Attach files to a record",
		Long:  "Uploads files and appends them to the attachments of an existing record.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(args[1:])
			if err != nil {
				return err
			}

			return withCoordinator(cmd, func(ctx context.Context, owner string, c *vault.Coordinator) error {
				view, err := c.AppendFiles(ctx, args[0], owner, files)
				if view != nil {
					if perr := printRecord(cmd.OutOrStdout(), view, true); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}

	return cmd
}
