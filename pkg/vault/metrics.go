package vault

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notevault_records_created_total",
		Help: "Data records created through the coordinator.",
	})
	assetsUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notevault_assets_uploaded_total",
		Help: "File assets persisted by create and append calls.",
	})
	assetUploadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notevault_asset_upload_failures_total",
		Help: "Uploads that aborted the remaining files of a call.",
	})
	assetsSoftDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notevault_assets_soft_deleted_total",
		Help: "Individual file deletions requested by owners.",
	})
	cascadeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notevault_cascade_failures_total",
		Help: "Attachments left active after their record was deleted.",
	})
	resolveFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notevault_attachment_resolve_failures_total",
		Help: "Records served without attachments because resolution failed.",
	})
)
