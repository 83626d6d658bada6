// Orchestrates a full export import.

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/siyuan-tools/notion2siyuan/internal/convert"
	"github.com/siyuan-tools/notion2siyuan/internal/nid"
)

// Importer drives discovery, ID minting, conversion and writing for one
// export archive.
type Importer struct {
	archive  Archive
	writer   *Writer
	progress ProgressReporter
	opts     convert.Options
}

// NewImporter creates a new importer.
func NewImporter(a Archive, w *Writer, progress ProgressReporter, opts convert.Options) *Importer {
	if progress == nil {
		progress = NullProgress{}
	}
	return &Importer{
		archive:  a,
		writer:   w,
		progress: progress,
		opts:     opts,
	}
}

// Run performs the full import. Every page gets its document ID before any
// page converts, so relation links never depend on processing order.
func (imp *Importer) Run(ctx context.Context) (*ImportStats, error) {
	startTime := time.Now()
	stats := &ImportStats{}

	if err := imp.writer.EnsureWorkspace(); err != nil {
		return nil, err
	}

	rctx, pages := Discover(imp.archive, imp.opts)
	imp.progress.OnStart(len(pages))

	// Phase 0: mint document IDs for all pages so relation targets resolve.
	for i := range pages {
		pages[i].BlockID = nid.New()
		if pages[i].NotionID != "" {
			rctx.SetBlockID(pages[i].NotionID, pages[i].BlockID)
		}
	}

	// Phase 1: copy attachments so pages never link to missing assets.
	for _, e := range imp.archive.Entries() {
		info, ok := rctx.Attachment(e.Path)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := imp.copyAsset(e.Path, info.MdPath); err != nil {
			imp.progress.OnError(fmt.Errorf("attachment %s: %w", e.Path, err))
			stats.Errors++
			continue
		}
		stats.Attachments++
	}

	// Phase 2: convert and write pages.
	conv := convert.NewConverter(rctx)
	for i, pg := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		imp.progress.OnProgress(i+1, pg.Title)

		data, err := imp.archive.ReadFile(pg.Path)
		if err != nil {
			imp.progress.OnError(fmt.Errorf("page %s: failed to read: %w", pg.Path, err))
			stats.Errors++
			continue
		}
		base := path.Dir(pg.Path)
		if base == "." {
			base = ""
		}
		md, err := conv.Convert(string(data), pg.Title, base)
		if err != nil {
			imp.progress.OnError(fmt.Errorf("page %s: failed to convert: %w", pg.Path, err))
			stats.Errors++
			continue
		}
		if err := imp.writer.WriteDocument(pg.BlockID, pg.Title, md.Attrs, md.Content); err != nil {
			imp.progress.OnError(fmt.Errorf("page %s: %w", pg.Path, err))
			stats.Errors++
			continue
		}
		for _, v := range md.AttributeViews {
			if err := imp.writer.WriteAttributeView(v); err != nil {
				imp.progress.OnError(fmt.Errorf("database %s: %w", v.Name, err))
				stats.Errors++
				continue
			}
			stats.Databases++
		}
		stats.Pages++
	}

	stats.Warnings = rctx.Warnings()
	stats.Duration = time.Since(startTime)
	imp.progress.OnComplete(*stats)
	return stats, nil
}

func (imp *Importer) copyAsset(srcPath, mdPath string) error {
	r, err := imp.archive.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	return imp.writer.WriteAsset(mdPath, r)
}

// DryRunResult contains items that would be imported during a dry run.
type DryRunResult struct {
	Pages       []DryRunItem `json:"pages"`
	Attachments int          `json:"attachments"`
}

// DryRunItem represents a page that would be imported.
type DryRunItem struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// DryRun discovers content without converting or writing anything.
func (imp *Importer) DryRun() *DryRunResult {
	rctx, pages := Discover(imp.archive, imp.opts)

	result := &DryRunResult{Attachments: rctx.Attachments()}
	for _, pg := range pages {
		result.Pages = append(result.Pages, DryRunItem{
			ID:    pg.NotionID,
			Title: pg.Title,
			Path:  pg.Path,
		})
	}
	return result
}

// DryRunJSON returns the dry run result as JSON.
func (imp *Importer) DryRunJSON() (string, error) {
	data, err := json.MarshalIndent(imp.DryRun(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
