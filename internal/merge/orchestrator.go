// Package merge drives a merge run: validate the batch, convert every
// file into the shared output document, finalize it and hand the result
// to a sink.
package merge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pdfmerge/internal/config"
	"pdfmerge/internal/convert"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"
	"pdfmerge/internal/pdfdoc"
	"pdfmerge/internal/selection"
	"pdfmerge/pkg/types"
)

// DocumentTitle is written into the metadata of every merged PDF.
const DocumentTitle = "Merged PDF Document"

// Output is the document a run writes into.
type Output interface {
	convert.Document
	Bytes() ([]byte, error)
}

// OutputFactory creates the output document for one run.
type OutputFactory func(created time.Time) Output

// Observer is called with a snapshot after every state or progress
// change. It runs on the goroutine executing the run.
type Observer func(types.MergeRun)

// Result is what a successful run produced.
type Result struct {
	Artifact types.Artifact
	Outcomes []types.FileOutcome
}

// Orchestrator runs merges one at a time and keeps the last artifact.
type Orchestrator struct {
	mu       sync.Mutex
	run      types.MergeRun
	artifact *types.Artifact
	outcomes []types.FileOutcome

	settings   convert.Settings
	dispatcher *convert.Dispatcher
	newOutput  OutputFactory
	sink       Sink
	observer   Observer
	prefix     string
	bandStart  int
	bandEnd    int
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSink delivers successful artifacts to s.
func WithSink(s Sink) Option {
	return func(o *Orchestrator) { o.sink = s }
}

// WithObserver reports progress to fn.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithOutputFactory replaces the PDF document used for runs.
func WithOutputFactory(f OutputFactory) Option {
	return func(o *Orchestrator) { o.newOutput = f }
}

// WithDispatcher replaces the converter table.
func WithDispatcher(d *convert.Dispatcher) Option {
	return func(o *Orchestrator) { o.dispatcher = d }
}

// WithClock replaces time.Now for creation dates and filenames.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an idle orchestrator from cfg.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	settings := convert.SettingsFromConfig(cfg)
	pageW, pageH := cfg.Page.Width, cfg.Page.Height
	o := &Orchestrator{
		run:        idleRun(),
		settings:   settings,
		dispatcher: convert.NewDispatcher(settings, nil),
		newOutput: func(created time.Time) Output {
			return pdfdoc.New(pdfdoc.Options{
				PageWidth:  pageW,
				PageHeight: pageH,
				Title:      DocumentTitle,
				Created:    created,
			})
		},
		prefix:    cfg.Output.Prefix,
		bandStart: cfg.Progress.ConvertStart,
		bandEnd:   cfg.Progress.ConvertEnd,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func idleRun() types.MergeRun {
	return types.MergeRun{Status: types.Idle, CurrentFile: -1}
}

// Snapshot returns the current run state.
func (o *Orchestrator) Snapshot() types.MergeRun {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.run
}

// Artifact returns the artifact of the last successful run, if any.
func (o *Orchestrator) Artifact() (types.Artifact, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.artifact == nil {
		return types.Artifact{}, false
	}
	return *o.artifact, true
}

// Outcomes returns the per-file outcomes of the last run.
func (o *Orchestrator) Outcomes() []types.FileOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]types.FileOutcome(nil), o.outcomes...)
}

// Reset returns a finished orchestrator to Idle and drops the last
// artifact. It fails while a run is executing.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	if o.run.Status.Busy() {
		o.mu.Unlock()
		return errors.ErrRunInProgress
	}
	o.run = idleRun()
	o.artifact = nil
	o.outcomes = nil
	snap := o.run
	o.mu.Unlock()

	o.notify(snap)
	return nil
}

// update changes the run under the lock and reports the new snapshot.
func (o *Orchestrator) update(fn func(r *types.MergeRun)) {
	o.mu.Lock()
	fn(&o.run)
	snap := o.run
	o.mu.Unlock()
	o.notify(snap)
}

func (o *Orchestrator) notify(snap types.MergeRun) {
	if o.observer != nil {
		o.observer(snap)
	}
}

// Run merges files in the given order. A second Run while one is
// executing fails with ErrRunInProgress. Files that cannot be converted
// become error or info pages and never stop the run; an empty batch or a
// document that cannot be serialized fails it. When a sink is configured
// the artifact is delivered after the run has succeeded; a delivery
// failure is returned as a DeliveryFailed error together with the result,
// and the artifact is kept for Redeliver.
func (o *Orchestrator) Run(ctx context.Context, files []*types.CandidateFile) (*Result, error) {
	o.mu.Lock()
	if o.run.Status.Busy() {
		o.mu.Unlock()
		return nil, errors.ErrRunInProgress
	}
	o.run = types.MergeRun{Status: types.Validating, CurrentFile: -1, Message: "Preparing files..."}
	o.artifact = nil
	o.outcomes = nil
	snap := o.run
	o.mu.Unlock()
	o.notify(snap)

	logger := log.LogWithFields(log.F("files", len(files)))
	logger.Info("Merge started")

	valid := selection.FilterAcceptable(files)
	if len(valid) == 0 {
		return nil, o.fail(errors.ErrNoValidFiles)
	}
	o.update(func(r *types.MergeRun) { r.Percent = 10 })

	out := o.newOutput(o.now())
	outcomes := make([]types.FileOutcome, 0, len(valid))
	for i, f := range valid {
		if err := ctx.Err(); err != nil {
			return nil, o.fail(errors.NewRunError("merge cancelled", errors.PhaseConverting, errors.ConversionFailed, err))
		}
		o.update(func(r *types.MergeRun) {
			r.Status = types.Converting
			r.CurrentFile = i
			r.Message = fmt.Sprintf("Processing file %d of %d...", i+1, len(valid))
		})

		outcome := o.convertOne(ctx, f, out)
		outcomes = append(outcomes, types.FileOutcome{File: f, Outcome: outcome})
		log.LogWithFields(
			log.F("file", f.RelativePath),
			log.F("outcome", outcome.Kind.String()),
			log.F("pages", outcome.Pages),
		).Debug("File converted")

		o.update(func(r *types.MergeRun) {
			r.Percent = o.bandStart + (i+1)*(o.bandEnd-o.bandStart)/len(valid)
		})
	}

	o.update(func(r *types.MergeRun) {
		r.Status = types.Finalizing
		r.CurrentFile = -1
		r.Percent = 90
		r.Message = "Finalizing PDF..."
	})
	data, err := out.Bytes()
	if err != nil {
		return nil, o.fail(err)
	}

	artifact := types.Artifact{
		Bytes:    data,
		Filename: fmt.Sprintf("%s-%d.pdf", o.prefix, o.now().UnixMilli()),
	}
	o.mu.Lock()
	o.artifact = &artifact
	o.outcomes = outcomes
	o.run.Status = types.Succeeded
	o.run.Percent = 100
	o.run.Filename = artifact.Filename
	o.run.Message = "PDF created successfully!"
	snap = o.run
	o.mu.Unlock()
	o.notify(snap)

	logger.With(log.F("filename", artifact.Filename), log.F("bytes", len(data))).Info("Merge finished")
	result := &Result{Artifact: artifact, Outcomes: outcomes}
	return result, o.deliver(ctx, artifact)
}

// Redeliver hands the last artifact to the sink again.
func (o *Orchestrator) Redeliver(ctx context.Context) error {
	a, ok := o.Artifact()
	if !ok {
		return errors.ErrNothingToDeliver
	}
	return o.deliver(ctx, a)
}

func (o *Orchestrator) deliver(ctx context.Context, a types.Artifact) error {
	if o.sink == nil {
		return nil
	}
	if err := o.sink.Deliver(ctx, a); err != nil {
		err = errors.NewRunError("Failed to download PDF", errors.PhaseDelivering, errors.DeliveryFailed, err)
		log.LogError(err, "Delivery failed")
		return err
	}
	return nil
}

func (o *Orchestrator) fail(err error) error {
	o.update(func(r *types.MergeRun) {
		r.Status = types.Failed
		r.CurrentFile = -1
		r.Err = err.Error()
		r.Message = err.Error()
	})
	log.LogError(err, "Merge failed")
	return err
}

// convertOne runs the converter for f. A panic is turned into an error
// page so the batch carries on.
func (o *Orchestrator) convertOne(ctx context.Context, f *types.CandidateFile, out Output) (outcome types.ConversionOutcome) {
	before := out.PageCount()
	kind, c := o.dispatcher.For(f)
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("%s converter failed: %v", kind, r)
			log.LogWithFields(log.F("file", f.RelativePath)).Error(reason)
			convert.ErrorPage(out, o.settings, f, reason)
			outcome = types.ErrorPageOutcome(reason)
			outcome.Pages = out.PageCount() - before
		}
	}()
	return c.Convert(ctx, f, out)
}
