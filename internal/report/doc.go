// Package report turns scan issues into human-facing artifacts: an annotated screenshot,
// a JSON document and a Markdown report.
//
// Every function here is a pure function of its inputs. Issues are read, never modified.
package report
