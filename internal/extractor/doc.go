// Package extractor infers a tracklist from an asset's description or cue
// sheet.
//
// Extractors are strategies held by a Chain and tried in registration order.
// Each receives a fresh, empty Tracklist and either halts the chain, making
// its tracklist final, or declines and yields to the next one. There is no
// merging or scoring across extractors: the first to halt wins.
//
// Two strategies ship with the package:
//   - Heuristic ("DEFAULT") scans free text for "M:SS" stamps. The first stamp
//     decides whether stamps are absolute starts (it reads 0:00) or per-track
//     lengths; the choice holds for the whole run.
//   - Cue ("CUE-EXTRACTOR") reads a parsed cue sheet. It always halts, so
//     nothing registered after it runs.
//
// Callers append their own strategies with Chain.Add. An exhausted chain
// returns an empty tracklist rather than an error; treat Empty() as failure.
package extractor
