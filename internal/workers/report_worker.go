package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poalerts/config"
	"poalerts/internal/report"
	"poalerts/models"
	"poalerts/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrDeliveryFailure   = errors.New("report delivery failed")
	ErrRunInProgress     = errors.New("report run already in progress")
)

// Source returns open order lines promised inside the report window.
type Source interface {
	FetchDueLines(ctx context.Context, today time.Time, opts report.Options) ([]models.OrderLineRecord, error)
}

// Sender delivers a rendered report and returns a delivery identifier.
type Sender interface {
	Send(ctx context.Context, msg models.Message) (string, error)
}

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) (RunResult, error)
}

type ReportSettings struct {
	ThresholdDays  int
	IncludeOverdue bool
	Recipients     []string
	SubjectPrefix  string
	SystemName     string
	SourceTimeout  time.Duration
	SendTimeout    time.Duration
}

func SettingsFromConfig(cfg *config.Config) ReportSettings {
	return ReportSettings{
		ThresholdDays:  cfg.Report.ThresholdDays,
		IncludeOverdue: cfg.Report.IncludeOverdue,
		Recipients:     append([]string(nil), cfg.Report.Recipients...),
		SubjectPrefix:  cfg.Report.SubjectPrefix,
		SystemName:     cfg.Report.SystemName,
		SourceTimeout:  cfg.Source.Timeout,
		SendTimeout:    cfg.Mail.Timeout,
	}
}

type RunResult struct {
	RunID      string
	Today      time.Time
	Fetched    int
	Rejected   int
	Dropped    int
	Summary    report.Summary
	Sent       bool
	DeliveryID string
}

type ReportWorker struct {
	source   Source
	sender   Sender
	settings ReportSettings
	today    func() time.Time
}

func NewReportWorker(source Source, sender Sender, settings ReportSettings, today func() time.Time) *ReportWorker {
	return &ReportWorker{
		source:   source,
		sender:   sender,
		settings: settings,
		today:    today,
	}
}

// Run performs Fetch -> Classify -> Group -> Render -> Deliver once.
// An empty result is not an error and sends nothing.
func (w *ReportWorker) Run(ctx context.Context) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString(), Today: w.today()}
	runLog := logger.WithRun(res.RunID)
	opts := report.Options{
		ThresholdDays:  w.settings.ThresholdDays,
		IncludeOverdue: w.settings.IncludeOverdue,
	}

	runLog.Printf("🚀 Starting report run: today=%s threshold=%d overdue=%t",
		res.Today.Format("2006-01-02"), opts.ThresholdDays, opts.IncludeOverdue)

	records, err := w.fetch(ctx, res.Today, opts)
	if err != nil {
		runLog.Printf("✗ Fetch failed: %v", err)
		return res, err
	}
	res.Fetched = len(records)

	classified := report.Classify(records, res.Today, opts)
	res.Rejected = len(classified.Rejected)
	res.Dropped = classified.Dropped
	for _, invalid := range classified.Rejected {
		runLog.Printf("✗ Skipping record: %v", invalid)
	}
	if classified.Dropped > 0 {
		runLog.Printf("Dropped %d line(s) outside the report window", classified.Dropped)
	}

	groups := report.Group(classified.Lines)
	res.Summary = report.Summarize(groups)
	if len(groups) == 0 {
		runLog.Printf("✓ No due or overdue lines (fetched %d), nothing to send", res.Fetched)
		return res, nil
	}

	rendered, err := report.Render(groups, report.RenderParams{
		Today:          res.Today,
		ThresholdDays:  opts.ThresholdDays,
		IncludeOverdue: opts.IncludeOverdue,
		SubjectPrefix:  w.settings.SubjectPrefix,
		SystemName:     w.settings.SystemName,
	})
	if err != nil {
		return res, fmt.Errorf("failed to render report: %w", err)
	}

	deliveryID, err := w.send(ctx, models.Message{
		To:      w.settings.Recipients,
		Subject: rendered.Subject,
		Text:    rendered.TextBody,
		HTML:    rendered.HTMLBody,
	})
	if err != nil {
		runLog.Printf("✗ Delivery failed: %v", err)
		return res, err
	}
	res.Sent = true
	res.DeliveryID = deliveryID

	runLog.Printf("✓ Report sent: id=%s pos=%d due_soon=%d overdue=%d recipients=%d",
		deliveryID, res.Summary.PurchaseOrders, res.Summary.DueSoon, res.Summary.Overdue, len(w.settings.Recipients))
	return res, nil
}

func (w *ReportWorker) fetch(ctx context.Context, today time.Time, opts report.Options) ([]models.OrderLineRecord, error) {
	if w.settings.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.settings.SourceTimeout)
		defer cancel()
	}

	records, err := w.source.FetchDueLines(ctx, today, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return records, nil
}

func (w *ReportWorker) send(ctx context.Context, msg models.Message) (string, error) {
	if w.settings.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.settings.SendTimeout)
		defer cancel()
	}

	id, err := w.sender.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDeliveryFailure, err)
	}
	return id, nil
}
