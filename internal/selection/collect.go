package selection

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"
	"pdfmerge/pkg/types"
)

// Options controls directory expansion.
type Options struct {
	Include   []string // keep only entries matching one of these
	Exclude   []string // drop entries matching any of these
	Recursive bool     // descend into subdirectories
	Workers   int      // directories read concurrently
}

// OptionsFromConfig reads the selection section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Include:   cfg.Selection.Include,
		Exclude:   cfg.Selection.Exclude,
		Recursive: cfg.Selection.Recursive,
		Workers:   cfg.Selection.Workers,
	}
}

// node is a slot in the result tree. Directory slots are filled in by
// the goroutine that reads them; the tree is flattened after all reads
// have returned.
type node struct {
	file     *types.CandidateFile
	children []*node
}

func (n *node) flatten(out []*types.CandidateFile) []*types.CandidateFile {
	if n.file != nil {
		return append(out, n.file)
	}
	for _, c := range n.children {
		out = c.flatten(out)
	}
	return out
}

type collector struct {
	opts    Options
	include []glob.Glob
	exclude []glob.Glob
	sem     *semaphore.Weighted
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.NewConfigError("invalid glob pattern", p, errors.InvalidConfig, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Collect expands paths into candidate files. Files are taken as given;
// directories contribute their entries sorted by name, depth first, and
// filtered by the include and exclude patterns, which are matched against
// both the relative path and the base name. Every directory read is
// tracked, so the batch is returned only once all of them have finished.
// A path that does not exist is an error; unreadable subdirectories are
// logged and skipped.
func Collect(ctx context.Context, paths []string, opts Options) ([]*types.CandidateFile, error) {
	include, err := compileAll(opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(opts.Exclude)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	c := &collector{
		opts:    opts,
		include: include,
		exclude: exclude,
		sem:     semaphore.NewWeighted(int64(workers)),
	}

	g, gctx := errgroup.WithContext(ctx)
	roots := make([]*node, len(paths))
	for i, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			kind := errors.FileAccessDenied
			if os.IsNotExist(err) {
				kind = errors.FileNotFound
			}
			return nil, errors.NewFileError("cannot read selection", p, kind, err)
		}
		if !info.IsDir() {
			roots[i] = &node{file: candidate(p, "", info)}
			continue
		}
		roots[i] = &node{}
		c.expand(gctx, g, roots[i], p, dirName(p))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*types.CandidateFile
	for _, n := range roots {
		out = n.flatten(out)
	}
	out = FilterAcceptable(out)
	log.LogWithFields(log.F("paths", len(paths)), log.F("files", len(out))).Debug("Selection collected")
	return out, nil
}

func dirName(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Base(p)
}

// candidate builds a validated candidate, or nil when the entry is
// rejected.
func candidate(p, rel string, info os.FileInfo) *types.CandidateFile {
	f := types.NewFileCandidate(p, rel, info, DetectMime(p, info.Size()))
	if !IsAcceptable(f) {
		return nil
	}
	return f
}

func (c *collector) expand(ctx context.Context, g *errgroup.Group, n *node, dir, rel string) {
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		subdirs := c.read(n, dir, rel)
		c.sem.Release(1)

		for _, s := range subdirs {
			c.expand(ctx, g, s.node, s.dir, s.rel)
		}
		return nil
	})
}

type pendingDir struct {
	node *node
	dir  string
	rel  string
}

// read fills n with the entries of dir and returns the subdirectories
// still to be read.
func (c *collector) read(n *node, dir, rel string) []pendingDir {
	logger := log.LogWithFields(log.F("path", dir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warnf("Skipping unreadable directory: %v", err)
		return nil
	}

	var subdirs []pendingDir
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
			continue
		}
		p := filepath.Join(dir, name)
		childRel := rel + "/" + name

		if e.IsDir() {
			if c.opts.Recursive {
				child := &node{}
				n.children = append(n.children, child)
				subdirs = append(subdirs, pendingDir{node: child, dir: p, rel: childRel})
			}
			continue
		}

		// Stat follows symlinks; links to directories are not followed.
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			logger.Debugf("Skipping %s", name)
			continue
		}
		if !c.matches(childRel) {
			continue
		}
		if f := candidate(p, childRel, info); f != nil {
			n.children = append(n.children, &node{file: f})
		}
	}
	return subdirs
}

func (c *collector) matches(rel string) bool {
	base := path.Base(rel)
	match := func(globs []glob.Glob) bool {
		for _, g := range globs {
			if g.Match(rel) || g.Match(base) {
				return true
			}
		}
		return false
	}
	if len(c.include) > 0 && !match(c.include) {
		return false
	}
	return !match(c.exclude)
}
