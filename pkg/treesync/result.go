package treesync

import "github.com/rs/zerolog"

// Result is the per-destination outcome summary of one sync run. It is
// created when a destination's sync starts, finalized at the end, and never
// persisted.
//
// Invariant: every file examined for the destination lands in exactly one
// bucket, so FilesCopied + FilesSkipped + FilesIgnored + len(Errors) equals
// the number of files processed.
type Result struct {
	DestinationName string
	FilesCopied     int
	FilesSkipped    int
	FilesIgnored    int
	Errors          []*CopyError
}

// Examined returns the total number of files that reached a decision.
func (r *Result) Examined() int {
	return r.FilesCopied + r.FilesSkipped + r.FilesIgnored + len(r.Errors)
}

// Ok reports whether the destination completed without file errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// LogSummary emits the destination's counters and any errors.
func (r *Result) LogSummary(log zerolog.Logger, msg string) {
	log.Info().
		Str("destination", r.DestinationName).
		Int("files_copied", r.FilesCopied).
		Int("files_skipped", r.FilesSkipped).
		Int("files_ignored", r.FilesIgnored).
		Int("errors", len(r.Errors)).
		Msg(msg)

	for _, copyErr := range r.Errors {
		log.Error().
			Str("destination", r.DestinationName).
			Str("path", copyErr.RelPath).
			Err(copyErr.Err).
			Msg("File failed to copy")
	}
}
