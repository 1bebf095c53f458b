// Package description collects the human-readable text shown next to each
// plot type.
//
// Text comes from several sources: per-generator documentation, explicit
// overrides given at registration, and whole tables read from the metadata
// databases. Each source yields a Table keyed by (category, label); a label of
// "" holds the category-level description. Sources.Merge concatenates every
// source in registration order and collapses duplicate keys according to the
// configured Policy (KeepFirst unless told otherwise).
package description
