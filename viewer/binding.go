// Package viewer binds citations to a rendered document view: which document
// is open, which page is shown and which text fragments are highlighted.
package viewer

import (
	"docchat/cite"
	"docchat/types"
)

// Binding tracks the currently displayed document and page. Highlight state
// is keyed to the current page: it is cleared on every document or page
// change and recomputed only when the matching page reports its fragments,
// so a slow render can never paint highlights onto a newer page.
type Binding struct {
	minSnippetLen int

	currentDoc  string
	currentPage int
	snippet     string
	highlights  []int
}

// OpenResult reports what a citation click changed.
type OpenResult struct {
	SwitchedDoc bool
	JumpedPage  bool
}

func NewBinding(minSnippetLen int) *Binding {
	return &Binding{minSnippetLen: minSnippetLen, currentPage: 1}
}

// Open applies a citation click: switch document if the source differs, jump
// to the cited page, and remember the snippet for highlighting once the page
// content arrives. Any change clears previous highlight state.
func (b *Binding) Open(c types.Citation) OpenResult {
	var res OpenResult

	page := c.PageDisplay
	if page < 1 {
		page = 1
	}

	if c.SourceName != b.currentDoc {
		b.currentDoc = c.SourceName
		res.SwitchedDoc = true
	}
	if page != b.currentPage {
		b.currentPage = page
		res.JumpedPage = true
	}

	b.snippet = c.Snippet
	b.highlights = nil
	return res
}

// PageRendered supplies the text fragments of a page that finished rendering.
// Fragments for anything other than the current document and page are stale
// and ignored.
func (b *Binding) PageRendered(doc string, page int, fragments []string) {
	if doc != b.currentDoc || page != b.currentPage {
		return
	}
	b.highlights = cite.MatchFragments(b.snippet, fragments, b.minSnippetLen)
}

// SetPage navigates without a citation, e.g. manual paging. Clears snippet
// and highlight state.
func (b *Binding) SetPage(doc string, page int) {
	if page < 1 {
		page = 1
	}
	if doc == b.currentDoc && page == b.currentPage {
		return
	}
	b.currentDoc = doc
	b.currentPage = page
	b.snippet = ""
	b.highlights = nil
}

func (b *Binding) CurrentDoc() string { return b.currentDoc }
func (b *Binding) CurrentPage() int   { return b.currentPage }
func (b *Binding) Highlights() []int  { return b.highlights }
func (b *Binding) Snippet() string    { return b.snippet }
