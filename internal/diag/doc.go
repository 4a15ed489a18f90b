// Package diag defines the diagnostic model shared by the loaders, the
// analyzer driver and the lint rules.
//
// Diagnostic is the central record: a Severity, a Code with a stable
// string ID (IO, SYN, LNT and OBS ranges), a short message, the primary
// source.Span and optional notes pointing at related spans ("declared
// here"). Producers emit through a Reporter so storage stays decoupled;
// BagReporter collects into a Bag, which sorts and deduplicates.
//
// The package does no I/O. Rendering lives in FormatShort here and in the
// CLI's pretty printer.
package diag
