// Package plistedit edits iOS Info.plist documents behind a single Editor
// abstraction. The preferred implementation parses the document into a
// key/value tree, mutates it by key, and reserializes it in its source
// format; a line-anchored fallback handles documents the parser rejects,
// replacing the value line that follows a matched key line. The package also
// locates the Info.plist to stamp under a project root, skipping Pods and
// build directories.
package plistedit
