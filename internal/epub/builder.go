// Package epub packages a treated audiobook chapter into an EPUB3 Media
// Overlay file: the chapter's polished manuscript text, paired with a
// SMIL document that synchronizes each paragraph to its span in the
// chapter's treated audio.
package epub

import "time"

// Book is the volume-level metadata an export carries into the EPUB
// package document.
type Book struct {
	ID        string
	Title     string
	Author    string
	Language  string // ISO 639-1 code (e.g., "en")
	Publisher string
	ISBN      string
	CreatedAt time.Time
}

// Chapter is one exported chapter: its polished manuscript text plus the
// structural metadata the navigation and package documents need.
type Chapter struct {
	ID           string // Unique identifier (e.g., "ch_001")
	Title        string
	Level        int    // Hierarchy level (1=part, 2=chapter, 3=section)
	LevelName    string // e.g., "chapter", "part", "epilogue"
	EntryNumber  string // e.g., "1", "I", "A"
	MatterType   string // "front_matter", "body", "back_matter"
	PolishedText string // Markdown-formatted text
	SortOrder    int
}

const defaultStylesheet = `/* masterctl ePub stylesheet */

body {
  font-family: Georgia, "Times New Roman", serif;
  font-size: 1em;
  line-height: 1.6;
  margin: 1em;
  text-align: justify;
}

h1, h2, h3, h4, h5, h6 {
  font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  font-weight: bold;
  margin-top: 1.5em;
  margin-bottom: 0.5em;
  text-align: left;
}

h1 {
  font-size: 1.8em;
  border-bottom: 1px solid #ccc;
  padding-bottom: 0.3em;
}

h2 {
  font-size: 1.4em;
}

h3 {
  font-size: 1.2em;
}

p {
  margin: 0.5em 0;
  text-indent: 1.5em;
}

p:first-of-type,
h1 + p, h2 + p, h3 + p {
  text-indent: 0;
}

blockquote {
  margin: 1em 2em;
  font-style: italic;
  border-left: 3px solid #ccc;
  padding-left: 1em;
}

.chapter-title {
  text-align: center;
  margin-top: 3em;
  margin-bottom: 2em;
}

.chapter-number {
  font-size: 0.9em;
  text-transform: uppercase;
  letter-spacing: 0.1em;
  margin-bottom: 0.5em;
}

.front-matter, .back-matter {
  font-size: 0.95em;
}

.notes {
  font-size: 0.85em;
}
`
