// Package export turns a rendered template into deliverables.
//
// Every export reads a snapshot of the rendered surface:
//
//   - [Filename] and [EncodePNG] produce the downloadable PNG.
//   - [PrintHTML] and [TiledPrintHTML] produce self-contained print
//     documents that open the print dialog when loaded.
//   - [PrintPDF] and [TiledPrintPDF] produce print-ready PDF documents at
//     true scale.
//
// Side effects live behind small interfaces so callers can swap them out:
// a [Saver] persists artifacts and an [Opener] hands a document to the
// platform viewer. Opener failures are never reported to the caller; an
// environment without a viewer simply skips that step.
package export
