package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/config"
	"github.com/JonMunkholm/datadash/internal/dataset"
	"github.com/JonMunkholm/datadash/internal/logging"
)

// DefaultMaxFileSize caps uploads when Options.MaxFileSize is unset.
const DefaultMaxFileSize = 100 << 20

// DefaultPreviewRows is the number of rows Preview returns for n <= 0.
const DefaultPreviewRows = 5

// Options configure a Service. Zero values fall back to the package defaults.
type Options struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration

	SessionTTL    time.Duration
	MaxSessions   int
	SweepSchedule string

	PreviewRows int
	Chart       chart.Options
}

// OptionsFromConfig maps the upload, session and chart settings of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		SessionTTL:    cfg.Session.TTL,
		MaxSessions:   cfg.Session.Max,
		SweepSchedule: cfg.Session.SweepSchedule,
		PreviewRows:   cfg.Chart.PreviewRows,
		Chart: chart.Options{
			Width:            cfg.Chart.Width,
			Height:           cfg.Chart.Height,
			HistogramBins:    cfg.Chart.HistogramBins,
			PieMaxCategories: cfg.Chart.PieMaxCategories,
		},
	}
}

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrentUploads
	}
	if o.MaxWait <= 0 {
		o.MaxWait = DefaultMaxWaitTime
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = DefaultSessionTTL
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = DefaultMaxSessions
	}
	if o.SweepSchedule == "" {
		o.SweepSchedule = DefaultSweepSchedule
	}
	if o.PreviewRows <= 0 {
		o.PreviewRows = DefaultPreviewRows
	}
	o.Chart = o.Chart.WithDefaults()
	return o
}

// Service runs the exploration pass for uploaded datasets.
type Service struct {
	opts     Options
	sessions *SessionStore
	limiter  *UploadLimiter
}

// NewService creates a Service with an empty session store.
func NewService(opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		opts:     opts,
		sessions: NewSessionStore(opts.SessionTTL, opts.MaxSessions),
		limiter:  NewUploadLimiter(opts.MaxConcurrent, opts.MaxWait),
	}
}

// Options returns the effective options, defaults applied.
func (s *Service) Options() Options {
	return s.opts
}

// Upload reads one file, parses it and stores it as a new session with every
// numeric column selected. size is the declared length, or -1 when unknown;
// a declared size over the limit is rejected before reading.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader, size int64) (Session, error) {
	log := logging.WithFields(ctx, append([]any{"file", fileName}, clientFields(ctx)...)...)

	if fileName == "" || r == nil {
		return Session{}, ErrNoFile
	}
	if size > s.opts.MaxFileSize {
		return Session{}, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrFileTooLarge, size, s.opts.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		log.Warn("upload rejected", "error", err, "active", s.limiter.ActiveCount())
		return Session{}, err
	}
	defer s.limiter.Release()

	start := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, s.opts.MaxFileSize+1))
	if err != nil {
		return Session{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.opts.MaxFileSize {
		return Session{}, fmt.Errorf("%w: exceeds the %d byte limit", ErrFileTooLarge, s.opts.MaxFileSize)
	}

	t, err := dataset.Load(fileName, data)
	if err != nil {
		if dataset.IsParseFailure(err) && len(bytes.TrimSpace(data)) == 0 {
			return Session{}, fmt.Errorf("%q: %w", fileName, ErrEmptyFile)
		}
		log.Warn("upload parse failed", "error", err, "bytes", len(data))
		return Session{}, err
	}

	numeric := t.NumericColumns()
	working := t
	if len(numeric) > 0 {
		if working, err = t.FilterColumns(numeric); err != nil {
			return Session{}, fmt.Errorf("select numeric columns: %w", err)
		}
	}

	sess := s.sessions.Create(fileName, t, working, numeric)
	log.Info("upload parsed",
		"session_id", sess.ID,
		"bytes", len(data),
		"rows", t.Rows(),
		"columns", t.Cols(),
		"numeric_columns", len(numeric),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sess, nil
}

// Session returns the session with the given id.
func (s *Service) Session(id string) (Session, error) {
	return s.sessions.Get(id)
}

// SelectColumns sets the working table to the original table restricted to
// keep. Every name must be a numeric column. An invalid selection leaves the
// session unchanged; a valid one clears the last chart.
func (s *Service) SelectColumns(id string, keep []string) (Session, error) {
	return s.sessions.Update(id, func(sess *Session) error {
		numeric := sess.Original.NumericColumns()
		if len(numeric) == 0 {
			return ErrNoNumericColumns
		}
		if len(keep) == 0 {
			return &SelectionError{Kind: SelectionEmpty}
		}

		isNumeric := make(map[string]bool, len(numeric))
		for _, name := range numeric {
			isNumeric[name] = true
		}
		var bad []string
		for _, name := range keep {
			if !isNumeric[name] {
				bad = append(bad, name)
			}
		}
		if len(bad) > 0 {
			return &SelectionError{Kind: SelectionUnknown, Columns: bad}
		}

		working, err := sess.Original.FilterColumns(keep)
		if err != nil {
			return err
		}
		sess.Working = working
		sess.Selected = working.Names()
		sess.LastChart = nil
		sess.LastRequest = chart.Request{}
		sess.ChartAt = time.Time{}
		return nil
	})
}

// Preview returns the first n rows of the working table. n <= 0 uses the
// configured preview size.
func (s *Service) Preview(id string, n int) (*dataset.Table, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.opts.PreviewRows
	}
	return sess.Working.Head(n), nil
}

// Describe summarizes each numeric column of the working table.
func (s *Service) Describe(id string) ([]dataset.Summary, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return dataset.Describe(sess.Working), nil
}

// RenderChart draws req against the working table and keeps the result as
// the session's last chart. Warnings and render errors leave the previous
// chart in place.
func (s *Service) RenderChart(ctx context.Context, id string, req chart.Request) (*chart.Result, error) {
	if !req.Kind.NeedsY() {
		req.Y = ""
	}
	log := logging.WithFields(ctx, "session_id", id, "kind", req.Kind.String())

	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := chart.Render(sess.Working, req, s.opts.Chart)
	if err != nil {
		if chart.IsWarning(err) {
			log.Info("chart not drawn", "reason", err.Error())
		} else {
			log.Error("chart render failed", "error", err)
		}
		return nil, err
	}

	rendered := sess.Working
	if _, err := s.sessions.Update(id, func(sess *Session) error {
		// A selection change while drawing makes this chart stale.
		if sess.Working == rendered {
			sess.LastChart = res
			sess.LastRequest = req
			sess.ChartAt = time.Now()
		}
		return nil
	}); err != nil {
		return nil, err
	}

	attrs := []any{"duration_ms", time.Since(start).Milliseconds()}
	if res.Outliers != nil {
		attrs = append(attrs, "outliers", res.Outliers.Rows())
	}
	log.Info("chart rendered", attrs...)
	return res, nil
}

// ExportCSV encodes the working table as UTF-8 CSV with a header row.
func (s *Service) ExportCSV(id string) ([]byte, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return dataset.EncodeCSV(sess.Working)
}

// ExportChartPNG encodes the session's last chart. It returns ErrNoChart if
// nothing has been rendered since the upload or the last selection change.
func (s *Service) ExportChartPNG(id string) ([]byte, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.LastChart == nil {
		return nil, ErrNoChart
	}
	return chart.EncodePNG(sess.LastChart)
}

// CloseSession discards a session and its tables. Closing an unknown or
// expired session returns ErrSessionNotFound.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if !s.sessions.Delete(id) {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	logging.WithFields(ctx, "session_id", id).Info("session closed")
	return nil
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// SessionCount returns the number of stored sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}
