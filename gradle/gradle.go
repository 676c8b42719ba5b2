package gradle

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/byte4ever/appstamp/versioninfo"
)

// ErrNotFound reports that the Android build file does not
// exist at the expected path.
var ErrNotFound = errors.New("build.gradle not found")

var (
	versionNameRe = regexp.MustCompile(
		`versionName\s+"[^"]*"`,
	)
	versionCodeRe = regexp.MustCompile(
		`versionCode\s+\d+`,
	)
)

// Result reports what a build file update did. The line
// fields carry the resulting field lines for verification
// output.
type Result struct {
	NameUpdated bool
	CodeUpdated bool

	VersionNameLine string
	VersionCodeLine string
}

// Update rewrites versionName and versionCode in the build
// file at path in place. A missing versionName field is
// logged and skipped; a missing versionCode field is
// tolerated silently. The rest of the file is preserved
// byte for byte and no backup artifact is left behind.
func Update(
	path string,
	va versioninfo.Values,
) (Result, error) {
	const errCtx = "updating build.gradle"

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

	content := string(raw)

	var res Result

	if versionNameRe.MatchString(content) {
		content = versionNameRe.ReplaceAllString(
			content,
			`versionName "`+va.Version+`"`,
		)
		res.NameUpdated = true
	} else {
		slog.Warn(
			"no versionName field in build file",
			"path", path,
		)
	}

	if versionCodeRe.MatchString(content) {
		content = versionCodeRe.ReplaceAllString(
			content,
			"versionCode "+va.Code,
		)
		res.CodeUpdated = true
	}

	err = os.WriteFile( //nolint:gosec // rewriting the same file
		path, []byte(content), info.Mode().Perm(),
	)
	if err != nil {
		return Result{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	res.VersionNameLine = findLine(
		content, versionNameRe,
	)
	res.VersionCodeLine = findLine(
		content, versionCodeRe,
	)

	return res, nil
}

// findLine returns the trimmed first line of content that
// matches re, or empty when nothing matches.
func findLine(content string, re *regexp.Regexp) string {
	for _, line := range strings.Split(content, "\n") {
		if re.MatchString(line) {
			return strings.TrimSpace(line)
		}
	}

	return ""
}
