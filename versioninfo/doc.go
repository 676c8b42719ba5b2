// Package versioninfo computes the timestamp-derived build identifiers used
// for stamping: a human-facing version string (YYYY.MM.DD-HHMM, UTC) and a
// numeric build code (YYYYMMDDHHmm, UTC), both overridable. It also reads and
// writes workspace-status style "KEY VALUE" stamp files so downstream build
// steps can consume the resolved values.
package versioninfo
