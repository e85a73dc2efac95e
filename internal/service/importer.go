package service

import (
	"context"
	"fmt"
	"time"

	"github.com/storeops/smsimport/internal/domain"
	"github.com/storeops/smsimport/internal/logger"
	"github.com/storeops/smsimport/internal/status"
)

// OrderExporter drives the remote export job lifecycle.
type OrderExporter interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	SubmitExportJob(ctx context.Context, token string) (string, error)
	WaitForJob(ctx context.Context, token, jobID string) ([]domain.OrderLine, error)
}

// StagingWriter materializes order lines into the target staging tables.
type StagingWriter interface {
	Ping(ctx context.Context) error
	InsertHeader(ctx context.Context, header *domain.ReceivingHeader) (int64, error)
	InsertDetail(ctx context.Context, detail *domain.ReceivingDetail) (int64, error)
}

// ImportService sequences one import run: connectivity check, export job,
// and the staged materialization of every returned order line. It owns the
// failure policy: job-level errors abort the run, per-record errors become
// skip counters.
type ImportService struct {
	client   OrderExporter
	staging  StagingWriter
	vendors  *VendorCache
	reporter status.Reporter
	logger   *logger.Logger

	username    string
	password    string
	closeTarget func() error
}

// ImportConfig holds construction parameters for ImportService.
type ImportConfig struct {
	Username string
	Password string

	// Reporter receives progress events; nil discards them.
	Reporter status.Reporter

	// CloseTarget releases the target-store connection at run end; nil
	// when the caller manages the connection itself.
	CloseTarget func() error
}

// NewImportService creates a new import orchestrator.
// Parameters:
//   - client: remote job client.
//   - staging: staging writer for the target store.
//   - vendors: per-run vendor-name cache.
//   - log: run logger.
//   - cfg: credentials and run wiring.
//
// Returns:
//   - *ImportService: initialized orchestrator.
func NewImportService(
	client OrderExporter,
	staging StagingWriter,
	vendors *VendorCache,
	log *logger.Logger,
	cfg *ImportConfig,
) *ImportService {
	return &ImportService{
		client:      client,
		staging:     staging,
		vendors:     vendors,
		reporter:    cfg.Reporter,
		logger:      log,
		username:    cfg.Username,
		password:    cfg.Password,
		closeTarget: cfg.CloseTarget,
	}
}

// log returns a logger from context if available, otherwise the service's.
func (s *ImportService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// report publishes a status event and mirrors it to the log.
func (s *ImportService) report(ctx context.Context, sev status.Severity, msg, detail string) {
	if s.reporter != nil {
		s.reporter.Publish(status.Event{Severity: sev, Message: msg, Detail: detail})
	}
	l := s.log(ctx)
	if detail != "" {
		l = l.WithField("detail", detail)
	}
	switch sev {
	case status.SeverityWarning:
		l.Warn(msg)
	case status.SeverityError:
		l.Error(msg)
	default:
		l.Info(msg)
	}
}

// Run executes the full import and returns the accumulated statistics. The
// statistics are valid on both success and failure; the run summary is
// emitted and the target connection released exactly once on every path.
// Parameters:
//   - ctx: context for cancellation; canceling aborts between operations.
//
// Returns:
//   - *domain.RunStats: run counters, never nil.
//   - error: nil on a clean run (including zero orders), otherwise the
//     connectivity/auth/job error that aborted it.
func (s *ImportService) Run(ctx context.Context) (stats *domain.RunStats, err error) {
	stats = &domain.RunStats{StartTime: time.Now()}

	defer func() {
		stats.EndTime = time.Now()
		s.emitSummary(ctx, stats, err)
		if s.closeTarget != nil {
			if cerr := s.closeTarget(); cerr != nil {
				s.log(ctx).WithError(cerr).Warn("Failed to close target-store connection")
			} else {
				s.log(ctx).Info("Target-store connection closed")
			}
		}
	}()

	// Never call the remote API against an unreachable target.
	s.report(ctx, status.SeverityInfo, "Validating database connectivity...", "")
	if err = s.staging.Ping(ctx); err != nil {
		s.report(ctx, status.SeverityError, "Database connectivity check failed", err.Error())
		return stats, err
	}
	s.report(ctx, status.SeverityInfo, "Database connectivity validated", "")

	s.report(ctx, status.SeverityInfo, "Connecting to Upshop API...", "requesting auth token")
	var token string
	token, err = s.client.Authenticate(ctx, s.username, s.password)
	if err != nil {
		s.report(ctx, status.SeverityError, "Authentication failed", err.Error())
		return stats, err
	}
	s.report(ctx, status.SeverityInfo, "Auth token retrieved", "")

	var jobID string
	jobID, err = s.client.SubmitExportJob(ctx, token)
	if err != nil {
		s.report(ctx, status.SeverityError, "Export job creation failed", err.Error())
		return stats, err
	}
	s.report(ctx, status.SeverityInfo, "Export job created", "job_id="+jobID)

	s.report(ctx, status.SeverityInfo, "Waiting for job completion...", "job_id="+jobID)
	var lines []domain.OrderLine
	lines, err = s.client.WaitForJob(ctx, token, jobID)
	if err != nil {
		s.report(ctx, status.SeverityError, "Export job did not complete", err.Error())
		return stats, err
	}
	s.report(ctx, status.SeverityInfo, "Download complete",
		fmt.Sprintf("%d item(s)", len(lines)))

	if len(lines) == 0 {
		s.report(ctx, status.SeverityInfo, "No approved orders found", "0 order / 0 item")
		return stats, nil
	}

	s.report(ctx, status.SeverityInfo, "Inserting into SMS staging tables...", "")
	s.importLines(ctx, lines, stats)

	s.report(ctx, status.SeverityInfo, "Import completed",
		fmt.Sprintf("PO(s)=%d | Items=%d", stats.DistinctHeaders, stats.ItemsSeen))
	return stats, nil
}

// importLines walks the result set in order. Order matters: it fixes the
// global line numbers and which record wins as the header source for a
// dedup key (first occurrence).
func (s *ImportService) importLines(ctx context.Context, lines []domain.OrderLine, stats *domain.RunStats) {
	seen := make(map[string]bool)
	lineNumber := 1

	for i := range lines {
		line := &lines[i]
		stats.ItemsSeen++

		key := line.DedupKey()
		order := line.CaseOrderNumber.String()
		sku := line.SKU.String()

		s.report(ctx, status.SeverityInfo, "Importing item...",
			fmt.Sprintf("%d/%d | PO=%s | SKU=%s", lineNumber, len(lines), order, sku))

		if !seen[key] {
			// The key is marked seen even when the header insert fails, so
			// a failing header is attempted once, not once per line. Detail
			// rows for that order are still written; the downstream batch
			// process tolerates detail without header.
			seen[key] = true
			stats.DistinctHeaders++

			vendorName := s.vendors.Resolve(ctx, line.VendorNumber.String())
			header := domain.NewReceivingHeader(line, vendorName)

			if rows, err := s.staging.InsertHeader(ctx, header); err != nil {
				stats.HeaderSkips++
				s.report(ctx, status.SeverityWarning, "Header row skipped",
					fmt.Sprintf("PO=%s: %v", order, err))
			} else {
				stats.HeaderInserts += rows
			}
		}

		detail := domain.NewReceivingDetail(line, lineNumber)
		if rows, err := s.staging.InsertDetail(ctx, detail); err != nil {
			stats.DetailSkips++
			s.report(ctx, status.SeverityWarning, "Detail row skipped",
				fmt.Sprintf("PO=%s line=%d: %v", order, lineNumber, err))
		} else {
			stats.DetailInserts += rows
		}

		lineNumber++
	}
}

// emitSummary logs the run summary and publishes the terminal status event.
func (s *ImportService) emitSummary(ctx context.Context, stats *domain.RunStats, runErr error) {
	s.log(ctx).WithFields(logger.Fields{
		"items_seen":           stats.ItemsSeen,
		"hdr_inserts":          stats.HeaderInserts,
		"hdr_skipped":          stats.HeaderSkips,
		"dtl_inserts":          stats.DetailInserts,
		"dtl_skipped":          stats.DetailSkips,
		"distinct_headers":     stats.DistinctHeaders,
		logger.FieldDurationMs: stats.EndTime.Sub(stats.StartTime).Milliseconds(),
	}).Info("Run summary")

	if runErr != nil {
		s.report(ctx, status.SeverityError, "Import failed", runErr.Error())
		return
	}

	imported := stats.OrdersImported()
	switch {
	case stats.Empty():
		s.report(ctx, status.SeverityDone, "No approved orders",
			"0 order / 0 item. You can close this window.")
	case imported == 0:
		s.report(ctx, status.SeverityDone, "No orders imported",
			fmt.Sprintf("%d item(s) downloaded but 0 order imported. You can close this window.", stats.ItemsSeen))
	case imported == 1:
		s.report(ctx, status.SeverityDone, "Done", "1 order was imported. You can close this window.")
	default:
		s.report(ctx, status.SeverityDone, "Done",
			fmt.Sprintf("%d orders were imported. You can close this window.", imported))
	}
}
