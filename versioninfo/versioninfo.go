package versioninfo

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"
)

const (
	versionLayout = "2006.01.02-1504"
	codeLayout    = "200601021504"
)

// Values holds the two build identifiers for one stamping
// run. They are computed once and threaded read-only into
// every platform handler.
type Values struct {
	// Version is the human-facing version string in
	// YYYY.MM.DD-HHMM format (UTC).
	Version string

	// Code is the machine-facing build identifier in
	// YYYYMMDDHHmm format (UTC).
	Code string

	// CodeNum is Code parsed as an integer, needed by
	// targets that store the build code numerically.
	CodeNum int64
}

// FromTime computes Values from the given instant,
// interpreted in UTC.
func FromTime(t time.Time) Values {
	ut := t.UTC()
	code := ut.Format(codeLayout)

	// The layout is all digits, so this cannot fail.
	num, _ := strconv.ParseInt(code, 10, 64) //nolint:errcheck // see above

	return Values{
		Version: ut.Format(versionLayout),
		Code:    code,
		CodeNum: num,
	}
}

// Resolve builds Values from optional overrides, falling
// back to now for anything not overridden. A non-numeric
// code override is rejected here so the run fails before
// any file is touched.
func Resolve(
	versionOverride string,
	codeOverride string,
	now time.Time,
) (Values, error) {
	const errCtx = "resolving build values"

	va := FromTime(now)

	if versionOverride != "" {
		va.Version = versionOverride
	}

	if codeOverride != "" {
		num, err := strconv.ParseInt(
			codeOverride, 10, 64,
		)
		if err != nil {
			return Values{}, fmt.Errorf(
				"%s: build code must be numeric, got %q",
				errCtx, codeOverride,
			)
		}

		va.Code = codeOverride
		va.CodeNum = num
	}

	return va, nil
}

// Expand substitutes {YYYY} {MM} {DD} {hh} {mm} {ss}
// tokens in layout with the corresponding UTC components
// of t. Unknown tokens are preserved as-is.
func Expand(layout string, t time.Time) string {
	ut := t.UTC()

	ctx := map[string]interface{}{
		"YYYY": ut.Format("2006"),
		"MM":   ut.Format("01"),
		"DD":   ut.Format("02"),
		"hh":   ut.Format("15"),
		"mm":   ut.Format("04"),
		"ss":   ut.Format("05"),
	}

	return fasttemplate.ExecuteStringStd(
		layout, "{", "}", ctx,
	)
}

// WriteStampFile writes the resolved values as a
// workspace-status style file, one "KEY VALUE" pair per
// line, for downstream build steps to source or parse.
func WriteStampFile(path string, va Values) error {
	const errCtx = "writing stamp file"

	content := fmt.Sprintf(
		"BUILD_VERSION %s\nBUILD_CODE %s\n",
		va.Version, va.Code,
	)

	err := os.WriteFile( //nolint:gosec // path from CLI flag
		path, []byte(content), 0o666,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// ReadStampFile parses a stamp file written by
// WriteStampFile back into Values. Lines without a space
// are silently skipped; unknown keys are ignored.
func ReadStampFile(path string) (Values, error) {
	const errCtx = "reading stamp file"

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return Values{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	var va Values

	for _, line := range strings.Split(
		string(content), "\n",
	) {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		switch parts[0] {
		case "BUILD_VERSION":
			va.Version = parts[1]
		case "BUILD_CODE":
			va.Code = parts[1]
			va.CodeNum, _ = strconv.ParseInt( //nolint:errcheck // best effort
				parts[1], 10, 64,
			)
		}
	}

	return va, nil
}
