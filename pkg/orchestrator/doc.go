// Package orchestrator drives one batch run: it loads the template once,
// normalises and renders every record in input order, isolates per-record
// failures, and hands the successful artifacts to the archive packager before
// the run workspace is cleaned up.
package orchestrator
