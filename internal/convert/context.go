// Shared lookup state for one import batch.

package convert

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// FileInfo describes a page discovered in the export.
type FileInfo struct {
	// BlockID is the SiYuan document ID minted for the page. Empty until the
	// discovery pre-pass records it.
	BlockID string
	// Title is the page title as parsed from the export filename.
	Title string
}

// AttachmentInfo describes a non-page file discovered in the export.
type AttachmentInfo struct {
	// Path is the normalized path of the file inside the export.
	Path string
	// Name is the display name, with extension.
	Name string
	// MdPath is the path links use once the attachment is copied into the
	// output workspace.
	MdPath string
}

// Options holds batch-wide conversion settings.
type Options struct {
	// SingleLineBreaks collapses paragraph spacing so a single newline
	// separates blocks, matching SiYuan's single-line-break editor setting.
	SingleLineBreaks bool `envconfig:"SINGLE_LINE_BREAKS"`
}

// Context is the batch-scoped resolver state shared by all page conversions.
// Page block IDs must be recorded before any page referencing them converts;
// the importer does this in a pre-pass over the whole export.
type Context struct {
	Options Options

	warnings atomic.Int64

	mu          sync.RWMutex
	pages       map[string]*FileInfo       // Notion page ID -> file info
	attachments map[string]*AttachmentInfo // export path -> attachment info
}

// Warn logs a degraded-output warning and counts it for batch stats.
func (c *Context) Warn(msg string, args ...any) {
	c.warnings.Add(1)
	slog.Warn(msg, args...)
}

// Warnings returns the number of degraded-output warnings so far.
func (c *Context) Warnings() int {
	return int(c.warnings.Load())
}

// NewContext creates an empty resolver context.
func NewContext(opts Options) *Context {
	return &Context{
		Options:     opts,
		pages:       make(map[string]*FileInfo),
		attachments: make(map[string]*AttachmentInfo),
	}
}

// AddPage records a discovered page under its Notion ID.
func (c *Context) AddPage(notionID string, info *FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[notionID] = info
}

// SetBlockID records the block ID minted for a discovered page.
func (c *Context) SetBlockID(notionID, blockID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if info, ok := c.pages[notionID]; ok {
		info.BlockID = blockID
		return
	}
	c.pages[notionID] = &FileInfo{BlockID: blockID}
}

// Page returns the file info recorded for a Notion page ID.
func (c *Context) Page(notionID string) (*FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.pages[notionID]
	return info, ok
}

// AddAttachment records a discovered attachment under its export path.
func (c *Context) AddAttachment(path string, info *AttachmentInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachments[path] = info
}

// Attachment returns the attachment info recorded for an export path.
func (c *Context) Attachment(path string) (*AttachmentInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.attachments[path]
	return info, ok
}

// Pages returns the number of discovered pages.
func (c *Context) Pages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// Attachments returns the number of discovered attachments.
func (c *Context) Attachments() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.attachments)
}
