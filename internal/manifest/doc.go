// Package manifest builds QIIME 2 import manifests from a directory of
// FASTQ read files. A manifest associates every read file with a sample id
// (derived from the filename) and a read direction, and is the hand-off
// artifact consumed by the toolkit's import step.
//
// # Formats
//
// Two serializations are supported, selectable by configuration:
//
//	sample-id,absolute-filepath,direction        (legacy CSV)
//	sample-id<TAB>absolute-filepath<TAB>direction (TSV v2)
//
// Forward-direction rows always precede reverse-direction rows; within each
// direction block, rows follow the name-sorted directory listing, so output
// is deterministic for a given directory.
//
// # Usage
//
// Build and write a manifest:
//
//	b := manifest.NewBuilder(manifest.Options{
//	    Dir:  "/data/run42",
//	    Mode: manifest.ModePaired,
//	}, logger)
//	m, err := b.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = manifest.NewWriter(manifest.FormatCSVLegacy).WriteFile(m, "manifest.csv")
//
// WriteFile replaces any existing file at the target path without prompting;
// the manifest is a transient artifact regenerated from directory contents on
// every run.
//
// # Error Handling
//
// Failure cases map to sentinel errors in the domain package:
//   - domain.ErrDirectoryNotFound: input directory missing or unreadable
//   - domain.ErrNoMatchingFiles: nothing matched the naming convention
//   - domain.ErrAmbiguousSampleID: filename lacks the delimiter (strict mode)
//   - domain.ErrDuplicateSample: two files map to one (sample-id, direction)
//   - domain.ErrUnpairedSample: paired-end sample missing one mate
//   - domain.ErrWriteFailed: output path not writable
package manifest
