// Command appstamp stamps a chronologically sortable,
// timestamp-derived version into mobile build metadata
// files (android/app/build.gradle, ios/**/Info.plist,
// app.json) before a build step runs. It exits 0 when at
// least one platform was updated and 1 otherwise.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/byte4ever/appstamp/stamp"
	"github.com/byte4ever/appstamp/versioninfo"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)

		if errors.Is(err, stamp.ErrNoTargets) {
			fmt.Fprintln(
				os.Stderr,
				"hint: generate the native projects"+
					" first (e.g. expo prebuild)",
			)
		}

		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running appstamp"

	root := flag.String(
		"root", "",
		"project root directory"+
			" (default: PROJECT_ROOT or cwd)",
	)
	projectName := flag.String(
		"project_name", "",
		"iOS project directory name"+
			" (default: PROJECT_NAME)",
	)
	version := flag.String(
		"version", "",
		"build version override"+
			" (default: BUILD_VERSION or UTC timestamp)",
	)
	code := flag.String(
		"code", "",
		"numeric build code override"+
			" (default: BUILD_CODE or UTC timestamp)",
	)
	configPath := flag.String(
		"config", ".appstamp.yaml",
		"optional YAML run configuration file",
	)
	stampOut := flag.String(
		"stamp_out", "",
		"write resolved values to this stamp-info file",
	)

	flag.Parse()

	rc, err := stamp.LoadRunConfig(*configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	resolvedRoot := resolve(
		*root, "PROJECT_ROOT", rc.Root,
	)
	if resolvedRoot == "" {
		resolvedRoot, err = os.Getwd()
		if err != nil {
			return fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	values, err := versioninfo.Resolve(
		resolve(*version, "BUILD_VERSION", rc.Version),
		resolve(*code, "BUILD_CODE", rc.Code),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	res, err := stamp.Run(stamp.Config{
		Root: resolvedRoot,
		ProjectName: resolve(
			*projectName, "PROJECT_NAME", rc.ProjectName,
		),
		Values: values,
	})

	printSummary(values, res)

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if *stampOut != "" {
		err = versioninfo.WriteStampFile(
			*stampOut, values,
		)
		if err != nil {
			return fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	return nil
}

// resolve picks the first non-empty setting: explicit
// flag, then environment variable, then config file.
func resolve(
	flagVal string,
	envName string,
	fileVal string,
) string {
	if flagVal != "" {
		return flagVal
	}

	if ev := os.Getenv(envName); ev != "" {
		return ev
	}

	return fileVal
}

// printSummary writes the verification lines and the
// final summary box to stdout.
func printSummary(
	va versioninfo.Values,
	res stamp.Result,
) {
	if res.Android {
		fmt.Println("android:")
		fmt.Println("  " + res.AndroidResult.VersionNameLine)
		fmt.Println("  " + res.AndroidResult.VersionCodeLine)
	}

	if res.IOS {
		fmt.Println("ios: " + res.IOSResult.Path)
		fmt.Println(
			"  CFBundleShortVersionString = " +
				res.IOSResult.ShortVersion,
		)
		fmt.Println(
			"  CFBundleVersion = " +
				res.IOSResult.BundleVersion,
		)
	}

	if res.Expo {
		fmt.Println("expo: " + res.ExpoResult.Path)
		fmt.Print(res.ExpoResult.Document)
	}

	fmt.Println("==========================================")
	fmt.Println("  version :", va.Version)
	fmt.Println("  code    :", va.Code)
	fmt.Printf("  updated : %d platform(s)\n", res.Updated)
	fmt.Println("==========================================")
}
