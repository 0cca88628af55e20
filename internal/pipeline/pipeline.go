// Package pipeline sequences classification, extraction, enrichment,
// summarization and metadata emission for every file in the inbox. Files are
// processed one at a time; no error from one file is allowed to abort the
// run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/eastfarm/knowledge-guide/internal/config"
	"github.com/eastfarm/knowledge-guide/internal/extract"
	"github.com/eastfarm/knowledge-guide/internal/filetype"
	"github.com/eastfarm/knowledge-guide/internal/metadata"
	"github.com/eastfarm/knowledge-guide/internal/refs"
	"github.com/eastfarm/knowledge-guide/internal/summarize"
	"github.com/eastfarm/knowledge-guide/pkg/logger"
)

const (
	defaultCategory    = "Other"
	socialCategory     = "Social Media"
	errorsSubdirectory = "errors"
	basicPreviewLimit  = 500
)

// Failure records one file that could not be processed.
type Failure struct {
	File   string
	Reason string
}

// Report summarizes one pipeline run.
type Report struct {
	Processed       int
	MetadataWritten int
	Failed          []Failure
}

// Pipeline wires the per-file stages together.
type Pipeline struct {
	cfg        *config.AppConfig
	registry   *extract.Registry
	summarizer *summarize.Client
	enricher   *refs.Enricher
	ignore     []glob.Glob
	log        *logger.Logger

	// now is swapped out in tests for deterministic dates and suffixes.
	now func() time.Time
}

// New builds a Pipeline around the given configuration and summarization
// service.
func New(cfg *config.AppConfig, service summarize.ChatService) (*Pipeline, error) {
	log := logger.New("pipeline")

	var ignore []glob.Glob
	for _, pattern := range cfg.Folders.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		ignore = append(ignore, g)
	}

	return &Pipeline{
		cfg: cfg,
		registry: extract.NewRegistry(extract.Options{
			OCRBinary:    cfg.OCR.Binary,
			OCRLanguages: cfg.OCR.Languages,
			Log:          logger.New("extract"),
		}),
		summarizer: summarize.NewClient(cfg.Summarizer, service, logger.New("summarize")),
		enricher:   refs.NewEnricher(cfg.Enrichment.FetchTimeout(), logger.New("refs")),
		ignore:     ignore,
		log:        log,
		now:        time.Now,
	}, nil
}

// Run processes every file currently in the input folder once and returns
// the run report. Only an inability to prepare the base directories is a
// run-level error.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if err := p.ensureBaseDirs(); err != nil {
		return nil, err
	}

	files, err := p.collectInbox()
	if err != nil {
		return nil, fmt.Errorf("scan input folder: %w", err)
	}
	p.log.Infof("found %d files in %s", len(files), p.cfg.Folders.Input)

	report := &Report{}
	for _, path := range files {
		// The inbox may be modified externally; a vanished file is a skip,
		// not an error.
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		report.Processed++
		if err := p.processFile(ctx, path, report); err != nil {
			name := filepath.Base(path)
			p.log.WithFile(name).Errorf("processing failed: %v", err)
			report.Failed = append(report.Failed, Failure{File: name, Reason: err.Error()})
			p.routeToErrors(path)
		}
	}

	p.log.Infof("run complete: processed=%d metadata=%d failed=%d",
		report.Processed, report.MetadataWritten, len(report.Failed))
	return report, nil
}

func (p *Pipeline) ensureBaseDirs() error {
	dirs := []string{
		p.cfg.Folders.Input,
		p.cfg.Folders.Output,
		p.cfg.Folders.Metadata,
		filepath.Join(p.cfg.Folders.Output, "sources"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// collectInbox walks the input folder recursively, skipping hidden files and
// anything matching an ignore pattern.
func (p *Pipeline) collectInbox() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.cfg.Folders.Input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || p.ignored(name) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func (p *Pipeline) ignored(name string) bool {
	for _, g := range p.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// processFile runs the full per-file sequence: classify, extract, summarize,
// persist metadata, relocate.
func (p *Pipeline) processFile(ctx context.Context, path string, report *Report) error {
	name := filepath.Base(path)
	ft := filetype.Infer(name)
	log := p.log.WithFile(name)
	log.Infof("processing as %s", ft)

	destDir := p.typeDir(ft)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create type directory: %w", err)
	}

	// A name collision at the destination is resolved by suffixing a
	// timestamp; the metadata record follows the relocated name.
	destName := name
	destPath := filepath.Join(destDir, destName)
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(name)
		destName = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), p.now().Unix(), ext)
		destPath = filepath.Join(destDir, destName)
	}

	res := p.registry.Extract(ctx, ft, path)
	log.Debugf("extraction method %s yielded %d chars", res.Method, len(res.Text))

	modified := metadata.SourceModified(path)
	rec := p.buildRecord(ctx, res, ft, destName, modified, log)

	metaPath := filepath.Join(p.cfg.Folders.Metadata, metadata.Filename(destName))
	if err := metadata.Write(metaPath, rec, res.Text); err != nil {
		return err
	}
	report.MetadataWritten++

	if err := moveFile(path, destPath); err != nil {
		return fmt.Errorf("relocate file: %w", err)
	}
	log.Infof("organized with parse_status=%s -> %s", rec.ParseStatus, destPath)
	return nil
}

// buildRecord decides which metadata branch a file lands in: basic when no
// text was extracted, otherwise enriched or enrichment_failed depending on
// the summarization outcome.
func (p *Pipeline) buildRecord(ctx context.Context, res extract.Result, ft filetype.FileType, destName, modified string, log *logger.Logger) metadata.Record {
	rec := metadata.Record{
		Author:           "Unknown",
		Date:             p.now().Format("2006-01-02"),
		Category:         defaultCategory,
		ExtractionMethod: res.Method,
		FileType:         string(ft),
		Source:           destName,
		Modified:         modified,
		Reviewed:         false,
		ReprocessStatus:  "none",
		ReprocessRounds:  "0",
	}

	if strings.TrimSpace(res.Text) == "" {
		rec.Title = "Unprocessed: " + destName
		rec.Tags = []string{"unprocessed"}
		rec.ExtractContent = previewOf(res.Text)
		rec.ParseStatus = metadata.ParseStatusBasic
		return rec
	}

	var enriched []refs.EnrichedReference
	if p.cfg.Enrichment.Enabled {
		set := refs.Discover(res.Text)
		enriched = p.enricher.Enrich(ctx, set)
		log.Debugf("discovered %d urls, %d candidate titles", len(set.URLs), len(set.CandidateTitles))
	}

	sum := p.summarizer.Summarize(ctx, summarize.Request{
		Content:    res.Text,
		FileType:   ft,
		SocialPost: res.SocialPost,
		References: enriched,
		SourceName: destName,
	})

	switch {
	case sum.Status == summarize.StatusAPIError:
		rec.Title = "Error Processing: " + destName
		rec.Tags = []string{"error", "enrichment_failed"}
		rec.ExtractContent = ""
		rec.ParseStatus = metadata.ParseStatusFailed
		rec.ReprocessStatus = "needs_review"

	case summarize.Usable(sum):
		rec.Title = sum.Title
		if rec.Title == "" {
			rec.Title = "AI Processed: " + destName
		}
		rec.Tags = sum.Tags
		if len(rec.Tags) == 0 {
			rec.Tags = []string{"processed"}
		}
		rec.ExtractContent = sum.Summary
		rec.ParseStatus = metadata.ParseStatusEnriched
		if res.SocialPost {
			rec.Tags = appendMissing(rec.Tags, "linkedin", "social_media")
			rec.Category = socialCategory
		}

	default:
		// The raw summary is deliberately not persisted on this path; it is
		// logged so the information is not lost entirely.
		log.Debugf("discarding unusable summary: %q", sum.Summary)
		rec.Title = "Needs Review: " + destName
		rec.Tags = []string{"needs_review", "enrichment_failed"}
		rec.ExtractContent = ""
		rec.ParseStatus = metadata.ParseStatusFailed
	}

	return rec
}

func (p *Pipeline) typeDir(ft filetype.FileType) string {
	if ft == filetype.Other {
		return filepath.Join(p.cfg.Folders.Output, "sources")
	}
	return filepath.Join(p.cfg.Folders.Output, string(ft))
}

// routeToErrors moves a failed file to the dedicated error location; when
// even that fails the file is removed so it cannot wedge the next run.
func (p *Pipeline) routeToErrors(path string) {
	errorDir := filepath.Join(p.cfg.Folders.Output, errorsSubdirectory)
	if err := os.MkdirAll(errorDir, 0o755); err != nil {
		os.Remove(path)
		return
	}
	if err := moveFile(path, filepath.Join(errorDir, filepath.Base(path))); err != nil {
		os.Remove(path)
	}
}

func previewOf(text string) string {
	if len(text) > basicPreviewLimit {
		return text[:basicPreviewLimit] + "..."
	}
	return text
}

func appendMissing(tags []string, extra ...string) []string {
	for _, e := range extra {
		present := false
		for _, t := range tags {
			if t == e {
				present = true
				break
			}
		}
		if !present {
			tags = append(tags, e)
		}
	}
	return tags
}

// moveFile renames src to dst, copying across filesystems when rename is not
// possible.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
