package client

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/notevault/pkg/db/models"
	"github.com/mwantia/notevault/pkg/db/store"
	"github.com/mwantia/notevault/pkg/vault"
)

func printRecords(w io.Writer, views []vault.RecordView, humanReadable bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFILES\tCREATED")
	for _, view := range views {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", view.Record.ID, view.Record.Title, len(view.Attachments),
			formatTime(view.Record.CreatedAt.Local(), humanReadable))
	}
	return tw.Flush()
}

func printRecord(w io.Writer, view *vault.RecordView, humanReadable bool) error {
	record := view.Record
	fmt.Fprintf(w, "ID:       %s\n", record.ID)
	fmt.Fprintf(w, "Title:    %s\n", record.Title)
	fmt.Fprintf(w, "Created:  %s\n", formatTime(record.CreatedAt.Local(), humanReadable))
	fmt.Fprintf(w, "Updated:  %s\n", formatTime(record.UpdatedAt.Local(), humanReadable))
	if record.Content != "" {
		fmt.Fprintf(w, "\n%s\n", record.Content)
	}
	if len(view.Attachments) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tNAME\tTYPE\tSIZE")
	for _, attachment := range view.Attachments {
		id := attachment.ID
		if attachment.Legacy() {
			id = "(inline)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, attachment.Name, attachment.MimeType, formatSize(attachment.Size, humanReadable))
	}
	return tw.Flush()
}

func printAssets(w io.Writer, assets []models.FileAsset, humanReadable bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tRECORD\tUPLOADED")
	for _, asset := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", asset.ID, asset.OriginalName, asset.MimeType,
			formatSize(asset.SizeBytes, humanReadable), asset.ParentRecordID,
			formatTime(asset.UploadedAt.Local(), humanReadable))
	}
	return tw.Flush()
}

func printCascade(w io.Writer, report *store.CascadeReport) {
	failed := report.Failed()
	fmt.Fprintf(w, "Deleted record %s (%d of %d attachments deactivated)\n",
		report.RecordID, len(report.Attempts)-len(failed), len(report.Attempts))
	for _, attempt := range failed {
		fmt.Fprintf(w, "  %s: %v\n", attempt.AssetID, attempt.Err)
	}
}

func formatSize(size int64, humanReadable bool) string {
	if humanReadable {
		return humanize.IBytes(uint64(size))
	}
	return fmt.Sprintf("%d", size)
}

func formatTime(t time.Time, humanReadable bool) string {
	if humanReadable {
		return humanize.Time(t)
	}
	return t.Format(time.RFC3339)
}
