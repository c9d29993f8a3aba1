package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/selection"
	"pdfmerge/pkg/types"
)

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of last file activity
	FilesProcessed   int       // Files included in merges so far
	Merges           int       // Merges run so far
	Pending          int       // Files waiting for the quiet period to pass
}

// MergeReport describes one hot folder merge.
type MergeReport struct {
	Files    []string // Source paths in merge order
	Path     string   // Where the merged PDF was written, if it was
	Outcomes []types.FileOutcome
	Err      error
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithQuietPeriod overrides the configured quiet period.
func WithQuietPeriod(d time.Duration) Option {
	return func(dm *Daemon) {
		dm.quiet = d
	}
}

// WithCallback is called after every merge.
func WithCallback(cb func(MergeReport)) Option {
	return func(dm *Daemon) {
		dm.callback = cb
	}
}

// WithMergeOptions passes options to the daemon's orchestrator.
func WithMergeOptions(opts ...merge.Option) Option {
	return func(dm *Daemon) {
		dm.mergeOpts = append(dm.mergeOpts, opts...)
	}
}

// Daemon merges the files that arrive in its hot folders. Files are
// batched until no new file has shown up for the quiet period and are then
// merged in name order.
type Daemon struct {
	config    *config.Config
	watcher   *Watcher
	orch      *merge.Orchestrator
	sink      merge.FileSink
	quiet     time.Duration
	callback  func(MergeReport)
	mergeOpts []merge.Option

	mutex        sync.RWMutex
	pending      []string
	merged       map[string]time.Time // path -> modification time that was merged
	processed    int
	merges       int
	lastActivity time.Time
	running      bool
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewDaemon creates a hot folder daemon for the watch directories of cfg.
// Merged PDFs go to watch.output, or to output.directory when unset.
func NewDaemon(cfg *config.Config, opts ...Option) (*Daemon, error) {
	watcher, err := NewWatcher()
	if err != nil {
		return nil, err
	}

	out := cfg.Watch.Output
	if out == "" {
		out = cfg.Output.Directory
	}
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}

	d := &Daemon{
		config:  cfg,
		watcher: watcher,
		sink:    merge.FileSink{Dir: out},
		quiet:   time.Duration(cfg.Watch.QuietPeriod) * time.Second,
		merged:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.orch = merge.New(cfg, append([]merge.Option{merge.WithSink(d.sink)}, d.mergeOpts...)...)
	return d, nil
}

// AddWatchDirectory adds a directory to be watched
func (d *Daemon) AddWatchDirectory(dir string) error {
	return d.watcher.AddDirectory(dir)
}

// Start watches the configured directories and begins batching files.
func (d *Daemon) Start() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.running {
		return errors.New("daemon is already running")
	}

	for _, dir := range d.config.Watch.Directories {
		if err := d.watcher.AddDirectory(dir); err != nil {
			return err
		}
	}
	if len(d.watcher.GetDirectories()) == 0 {
		return errors.NewConfigError("no directories to watch", "watch.directories", errors.ConfigNotSet, nil)
	}
	if err := d.watcher.Start(); err != nil {
		return errors.Wrap(err, "error starting watcher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true
	go d.processEvents(ctx)

	log.LogWithFields(
		log.F("directories", d.watcher.GetDirectories()),
		log.F("output", d.sink.Dir),
		log.F("quiet_period", d.quiet.String()),
	).Info("Hot folder started")
	return nil
}

// Stop halts the daemon. Files still waiting for the quiet period are not
// merged.
func (d *Daemon) Stop() {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return
	}
	d.running = false
	cancel, done := d.cancel, d.done
	pending := len(d.pending)
	d.mutex.Unlock()

	d.watcher.Stop()
	cancel()
	<-done
	if pending > 0 {
		log.LogWithFields(log.F("pending", pending)).Warn("Hot folder stopped with files not merged")
	}
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: d.watcher.GetDirectories(),
		LastActivity:     d.lastActivity,
		FilesProcessed:   d.processed,
		Merges:           d.merges,
		Pending:          len(d.pending),
	}
}

// processEvents batches file events and merges once the folder is quiet.
func (d *Daemon) processEvents(ctx context.Context) {
	defer close(d.done)

	timer := time.NewTimer(d.quiet)
	timer.Stop()
	defer timer.Stop()

	events := d.watcher.FileChannel()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if d.accept(ev) {
				timer.Reset(d.quiet)
			}
		case <-timer.C:
			d.flush(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// accept queues the file of ev unless it is the daemon's own output, a
// type that cannot be merged or a version that was already merged.
func (d *Daemon) accept(ev FileModification) bool {
	if dir, err := filepath.Abs(filepath.Dir(ev.Path)); err == nil && dir == d.sink.Dir {
		return false
	}
	f := types.NewFileCandidate(ev.Path, "", ev.Info, "")
	if !selection.IsAcceptable(f) {
		return false
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()
	if mod, ok := d.merged[ev.Path]; ok && mod.Equal(ev.Info.ModTime()) {
		return false
	}
	d.lastActivity = ev.Timestamp
	for _, p := range d.pending {
		if p == ev.Path {
			return true
		}
	}
	d.pending = append(d.pending, ev.Path)
	log.LogWithFields(log.F("file", ev.Path)).Debug("Queued for merge")
	return true
}

// flush merges the pending files.
func (d *Daemon) flush(ctx context.Context) {
	d.mutex.Lock()
	paths := d.pending
	d.pending = nil
	d.mutex.Unlock()
	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	files := make([]*types.CandidateFile, 0, len(paths))
	modTimes := make(map[string]time.Time, len(paths))
	report := MergeReport{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, types.NewFileCandidate(p, "", info, selection.DetectMime(p, info.Size())))
		modTimes[p] = info.ModTime()
		report.Files = append(report.Files, p)
	}
	if len(files) == 0 {
		return
	}

	res, err := d.orch.Run(ctx, files)
	report.Err = err
	if res != nil {
		report.Outcomes = res.Outcomes
		if err == nil {
			report.Path = d.sink.Path(res.Artifact)
		}
	}

	d.mutex.Lock()
	d.merges++
	if err == nil || errors.IsDeliveryFailed(err) {
		d.processed += len(files)
		for p, mod := range modTimes {
			d.merged[p] = mod
		}
	}
	cb := d.callback
	d.mutex.Unlock()

	if err != nil {
		log.LogWithError(err).Error("Hot folder merge failed")
	} else {
		log.LogWithFields(log.F("files", len(files)), log.F("path", report.Path)).Info("Hot folder merged")
	}
	if cb != nil {
		cb(report)
	}
}
