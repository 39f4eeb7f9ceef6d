// Package folio is the composition root of the Folio note store.
//
// A workspace is one directory of Markdown files, each with an optional YAML
// front-matter block. The store in pkg/adapters/fs reads and writes those
// files atomically and keeps a small summary index under ".folio". The
// workspace in pkg/workspace mirrors the notes in memory for an editor:
// newest first, one selected note, optimistic updates, a parent/child tree.
//
// Usage:
//
//	ws, err := folio.Open(ctx, "~/Documents/MyNotes",
//		folio.WithLogger(logger),
//	)
//
//	// Create a child note and select it
//	note, ok := ws.Create(ctx, parentID)
package folio
