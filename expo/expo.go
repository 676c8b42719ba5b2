package expo

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/appstamp/versioninfo"
)

// ErrNotFound reports that no app.json exists at the
// expected path.
var ErrNotFound = errors.New("app.json not found")

// Result reports an app.json update. Document carries the
// full resulting file content for verification output.
type Result struct {
	Path     string
	Document string
}

// Update rewrites expo.version, expo.ios.buildNumber and
// expo.android.versionCode in the app.json at path,
// creating missing intermediate objects. Unrelated keys
// are preserved and the file is rewritten with 2-space
// indentation plus a trailing newline. Malformed JSON is
// a fatal error.
func Update(
	path string,
	va versioninfo.Values,
) (Result, error) {
	const errCtx = "updating app.json"

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

	var doc map[string]interface{}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{}, fmt.Errorf(
			"%s: decoding json: %w", errCtx, err,
		)
	}

	exp := ensureObject(doc, "expo")
	exp["version"] = va.Version

	ensureObject(exp, "ios")["buildNumber"] = va.Code
	ensureObject(exp, "android")["versionCode"] = va.CodeNum

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf(
			"%s: encoding json: %w", errCtx, err,
		)
	}

	out = append(out, '\n')

	err = os.WriteFile( //nolint:gosec // rewriting the same file
		path, out, info.Mode().Perm(),
	)
	if err != nil {
		return Result{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return Result{
		Path:     path,
		Document: string(out),
	}, nil
}

// ensureObject returns the object stored under key,
// creating it when absent. A non-object value under key
// is replaced, matching the create-missing-intermediates
// contract.
func ensureObject(
	parent map[string]interface{},
	key string,
) map[string]interface{} {
	if obj, ok := parent[key].(map[string]interface{}); ok {
		return obj
	}

	obj := make(map[string]interface{})
	parent[key] = obj

	return obj
}
