// Package convert turns one exported Notion page (HTML) into a SiYuan
// Markdown document plus attribute-view records.
//
// The conversion of a page runs as a fixed sequence: locate and rebuild
// databases, resolve cross-page and attachment links, repair Notion's export
// markup quirks, render to Markdown, then apply text-level fixups and expand
// database placeholders. Cross-page state (block IDs, attachment paths) is
// carried in a Context shared across the pages of one import batch.
package convert
