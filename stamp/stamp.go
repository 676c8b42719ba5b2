package stamp

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/byte4ever/appstamp/expo"
	"github.com/byte4ever/appstamp/gradle"
	"github.com/byte4ever/appstamp/plistedit"
	"github.com/byte4ever/appstamp/versioninfo"
)

// ErrNoTargets reports that none of the three platform
// targets exist under the project root.
var ErrNoTargets = errors.New(
	"no mobile platform targets found",
)

// Config holds all settings for one stamping run. The
// caller resolves environment and flags into it; the run
// itself reads no process environment.
type Config struct {
	// Root is the project root directory to search.
	Root string

	// ProjectName optionally names the iOS project
	// subdirectory holding Info.plist.
	ProjectName string

	// Values are the resolved build identifiers,
	// immutable for the duration of the run.
	Values versioninfo.Values
}

// Result reports what a run updated. The per-platform
// results carry the rewritten fields for verification
// output.
type Result struct {
	Android bool
	IOS     bool
	Expo    bool

	// Updated is the number of platforms updated (0-3).
	Updated int

	AndroidResult gradle.Result
	IOSResult     plistedit.Result
	ExpoResult    expo.Result
}

// Run stamps the build identifiers into each platform
// target in sequence: Android, iOS, Expo. A missing
// target is logged and skipped; any other failure aborts
// the run immediately, leaving earlier platforms
// modified (best-effort contract, no rollback). When no
// target exists at all the returned error wraps
// ErrNoTargets.
func Run(cfg Config) (Result, error) {
	const errCtx = "stamping versions"

	var res Result

	if err := runAndroid(cfg, &res); err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := runIOS(cfg, &res); err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := runExpo(cfg, &res); err != nil {
		return res, fmt.Errorf("%s: %w", errCtx, err)
	}

	if res.Updated == 0 {
		return res, fmt.Errorf(
			"%s: under %s: %w",
			errCtx, cfg.Root, ErrNoTargets,
		)
	}

	return res, nil
}

func runAndroid(cfg Config, res *Result) error {
	path := filepath.Join(
		cfg.Root, "android", "app", "build.gradle",
	)

	gr, err := gradle.Update(path, cfg.Values)
	if errors.Is(err, gradle.ErrNotFound) {
		slog.Warn(
			"android build file not found, skipping",
			"path", path,
		)

		return nil
	}

	if err != nil {
		return err
	}

	res.Android = true
	res.Updated++
	res.AndroidResult = gr

	slog.Info(
		"android updated",
		"versionName", gr.VersionNameLine,
		"versionCode", gr.VersionCodeLine,
	)

	return nil
}

func runIOS(cfg Config, res *Result) error {
	path, err := plistedit.Locate(
		cfg.Root, cfg.ProjectName,
	)
	if errors.Is(err, plistedit.ErrNotFound) {
		slog.Warn(
			"no Info.plist found, skipping ios",
			"root", cfg.Root,
		)

		return nil
	}

	if err != nil {
		return err
	}

	pr, err := plistedit.Update(
		path, cfg.Values.Version, cfg.Values.Code,
	)
	if err != nil {
		return err
	}

	res.IOS = true
	res.Updated++
	res.IOSResult = pr

	slog.Info(
		"ios updated",
		"path", pr.Path,
		"CFBundleShortVersionString", pr.ShortVersion,
		"CFBundleVersion", pr.BundleVersion,
		"structured", pr.Structured,
	)

	return nil
}

func runExpo(cfg Config, res *Result) error {
	path := filepath.Join(cfg.Root, "app.json")

	er, err := expo.Update(path, cfg.Values)
	if errors.Is(err, expo.ErrNotFound) {
		// Warn like the other platforms; the original
		// tool skipped app.json silently.
		slog.Warn(
			"app.json not found, skipping expo",
			"path", path,
		)

		return nil
	}

	if err != nil {
		return err
	}

	res.Expo = true
	res.Updated++
	res.ExpoResult = er

	slog.Info("expo updated", "path", er.Path)

	return nil
}
