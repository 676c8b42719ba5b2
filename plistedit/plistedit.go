package plistedit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// ErrNotFound reports that no Info.plist candidate exists
// under the project root.
var ErrNotFound = errors.New("Info.plist not found")

// Editor mutates top-level string keys of a property list
// document. Open selects the implementation: a structured
// parse-mutate-serialize editor when the document parses,
// or a line-anchored fallback when it does not.
type Editor interface {
	// Get returns the string value for key, when present.
	Get(key string) (string, bool)

	// Set stores a string value under key.
	Set(key string, value string)

	// Bytes serializes the edited document.
	Bytes() ([]byte, error)
}

// Open returns an editor for the raw document. Documents
// the plist parser rejects get the line-based fallback
// editor instead of an error.
func Open(raw []byte) Editor {
	var root map[string]interface{}

	format, err := plist.Unmarshal(raw, &root)
	if err != nil || root == nil {
		return newLineEditor(raw)
	}

	return &structuredEditor{
		root:   root,
		format: format,
	}
}

// structuredEditor mutates the parsed key/value tree and
// reserializes it in the source format, so an XML plist
// stays XML and a binary one stays binary.
type structuredEditor struct {
	root   map[string]interface{}
	format int
}

func (se *structuredEditor) Get(key string) (string, bool) {
	val, ok := se.root[key].(string)

	return val, ok
}

func (se *structuredEditor) Set(key string, value string) {
	se.root[key] = value
}

func (se *structuredEditor) Bytes() ([]byte, error) {
	const errCtx = "serializing plist"

	by, err := plist.MarshalIndent(
		se.root, se.format, "\t",
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return by, nil
}

// lineEditor assumes the fixed key-then-value layout of
// generated Info.plist files: a <key>K</key> line followed
// by a <string>V</string> line. When the document nests
// differently the substitution silently fails to match.
type lineEditor struct {
	lines []string
}

func newLineEditor(raw []byte) *lineEditor {
	return &lineEditor{
		lines: strings.Split(string(raw), "\n"),
	}
}

// valueIndex returns the index of the line holding the
// value for key, or -1 when the key line or its value
// line is not in the expected shape.
func (le *lineEditor) valueIndex(key string) int {
	marker := "<key>" + key + "</key>"

	for idx, line := range le.lines {
		if strings.TrimSpace(line) != marker {
			continue
		}

		if idx+1 >= len(le.lines) {
			return -1
		}

		next := strings.TrimSpace(le.lines[idx+1])
		if strings.HasPrefix(next, "<string>") &&
			strings.HasSuffix(next, "</string>") {
			return idx + 1
		}

		return -1
	}

	return -1
}

func (le *lineEditor) Get(key string) (string, bool) {
	idx := le.valueIndex(key)
	if idx < 0 {
		return "", false
	}

	val := strings.TrimSpace(le.lines[idx])
	val = strings.TrimPrefix(val, "<string>")
	val = strings.TrimSuffix(val, "</string>")

	return val, true
}

func (le *lineEditor) Set(key string, value string) {
	idx := le.valueIndex(key)
	if idx < 0 {
		return
	}

	line := le.lines[idx]
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	le.lines[idx] = indent + "<string>" + value + "</string>"
}

func (le *lineEditor) Bytes() ([]byte, error) {
	return []byte(strings.Join(le.lines, "\n")), nil
}

// Locate finds the Info.plist to stamp under root. Fixed
// candidates are tried first, then the first Info.plist
// found walking ios/, excluding anything under a Pods or
// build directory.
func Locate(
	root string,
	projectName string,
) (string, error) {
	const errCtx = "locating Info.plist"

	var candidates []string

	if projectName != "" {
		candidates = append(
			candidates,
			filepath.Join(
				root, "ios", projectName, "Info.plist",
			),
		)
	}

	candidates = append(
		candidates,
		filepath.Join(root, "ios", "App", "Info.plist"),
		filepath.Join(root, "ios", "Info.plist"),
	)

	for _, ca := range candidates {
		if _, err := os.Stat(ca); err == nil {
			return ca, nil
		}
	}

	found := ""

	err := filepath.WalkDir(
		filepath.Join(root, "ios"),
		func(pa string, de fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable entries are skipped
			}

			if de.IsDir() {
				name := de.Name()
				if name == "Pods" || name == "build" {
					return fs.SkipDir
				}

				return nil
			}

			if de.Name() == "Info.plist" {
				found = pa

				return fs.SkipAll
			}

			return nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if found == "" {
		return "", fmt.Errorf(
			"%s: under %s: %w",
			errCtx, filepath.Join(root, "ios"), ErrNotFound,
		)
	}

	return found, nil
}

// Result reports a plist update for verification output.
type Result struct {
	Path string

	// Structured is false when the line-based fallback
	// editor handled the document.
	Structured bool

	ShortVersion  string
	BundleVersion string
}

// Update sets CFBundleShortVersionString and
// CFBundleVersion in the plist at path and rewrites it in
// place. No backup artifact is left behind.
func Update(
	path string,
	version string,
	code string,
) (Result, error) {
	const errCtx = "updating Info.plist"

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Result{}, fmt.Errorf(
			"%s: %s: %w", errCtx, path, ErrNotFound,
		)
	}

	if err != nil {
		return Result{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	raw, err := os.ReadFile(path) //nolint:gosec // path from run config
	if err != nil {
		return Result{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	ed := Open(raw)

	ed.Set("CFBundleShortVersionString", version)
	ed.Set("CFBundleVersion", code)

	out, err := ed.Bytes()
	if err != nil {
		return Result{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	err = os.WriteFile( //nolint:gosec // rewriting the same file
		path, out, info.Mode().Perm(),
	)
	if err != nil {
		return Result{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	_, structured := ed.(*structuredEditor)

	short, _ := ed.Get("CFBundleShortVersionString")
	bundle, _ := ed.Get("CFBundleVersion")

	return Result{
		Path:          path,
		Structured:    structured,
		ShortVersion:  short,
		BundleVersion: bundle,
	}, nil
}
