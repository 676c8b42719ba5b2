package plistedit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"github.com/byte4ever/appstamp/plistedit"
)

const sampleInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>com.example.app</string>
	<key>CFBundleShortVersionString</key>
	<string>1.0</string>
	<key>CFBundleVersion</key>
	<string>1</string>
</dict>
</plist>
`

// notAPlist still has the fixed key-then-value layout the
// fallback editor expects, but is not a parseable plist.
const notAPlist = `garbage header
	<key>CFBundleShortVersionString</key>
	<string>1.0</string>
	<key>CFBundleVersion</key>
	<string>1</string>
`

// writePlist creates an Info.plist with content at
// dir/rel and returns its path.
func writePlist(
	tb testing.TB,
	dir string,
	rel string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, rel)
	require.NoError(
		tb, os.MkdirAll(filepath.Dir(pa), 0o750),
	)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

// readKeys unmarshals the plist at path and returns the
// two version keys.
func readKeys(
	tb testing.TB,
	path string,
) (string, string) {
	tb.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(tb, err)

	var root map[string]interface{}

	_, err = plist.Unmarshal(raw, &root)
	require.NoError(tb, err)

	short, _ := root["CFBundleShortVersionString"].(string)
	bundle, _ := root["CFBundleVersion"].(string)

	return short, bundle
}

func TestUpdate_structured(t *testing.T) {
	t.Parallel()

	pa := writePlist(
		t, t.TempDir(), "Info.plist", sampleInfoPlist,
	)

	res, err := plistedit.Update(
		pa, "2025.01.01-0101", "202501010101",
	)

	require.NoError(t, err)
	assert.True(t, res.Structured)
	assert.Equal(t, "2025.01.01-0101", res.ShortVersion)
	assert.Equal(t, "202501010101", res.BundleVersion)

	short, bundle := readKeys(t, pa)
	assert.Equal(t, "2025.01.01-0101", short)
	assert.Equal(t, "202501010101", bundle)
}

func TestUpdate_preserves_other_keys(t *testing.T) {
	t.Parallel()

	pa := writePlist(
		t, t.TempDir(), "Info.plist", sampleInfoPlist,
	)

	_, err := plistedit.Update(pa, "2.0", "2")
	require.NoError(t, err)

	raw, err := os.ReadFile(pa)
	require.NoError(t, err)

	var root map[string]interface{}

	_, err = plist.Unmarshal(raw, &root)
	require.NoError(t, err)

	assert.Equal(
		t,
		"com.example.app",
		root["CFBundleIdentifier"],
	)
}

func TestUpdate_line_fallback(t *testing.T) {
	t.Parallel()

	pa := writePlist(
		t, t.TempDir(), "Info.plist", notAPlist,
	)

	res, err := plistedit.Update(
		pa, "2025.01.01-0101", "202501010101",
	)

	require.NoError(t, err)
	assert.False(t, res.Structured)
	assert.Equal(t, "2025.01.01-0101", res.ShortVersion)
	assert.Equal(t, "202501010101", res.BundleVersion)

	raw, err := os.ReadFile(pa)
	require.NoError(t, err)

	assert.Contains(
		t, string(raw),
		"<string>2025.01.01-0101</string>",
	)
	assert.Contains(t, string(raw), "garbage header")
}

func TestUpdate_line_fallback_unmatched_key(t *testing.T) {
	t.Parallel()

	content := "junk\n<key>OtherKey</key>\n<string>x</string>\n"
	pa := writePlist(
		t, t.TempDir(), "Info.plist", content,
	)

	res, err := plistedit.Update(pa, "2.0", "2")

	// Unmatched keys are a silent no-op, not an error.
	require.NoError(t, err)
	assert.False(t, res.Structured)
	assert.Empty(t, res.ShortVersion)

	raw, err := os.ReadFile(pa)
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))
}

func TestUpdate_missing_file(t *testing.T) {
	t.Parallel()

	_, err := plistedit.Update(
		filepath.Join(t.TempDir(), "Info.plist"),
		"2.0", "2",
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, plistedit.ErrNotFound))
}

func TestUpdate_no_backup_left(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := writePlist(t, dir, "Info.plist", sampleInfoPlist)

	_, err := plistedit.Update(pa, "2.0", "2")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Info.plist", entries[0].Name())
}

func TestUpdate_idempotent(t *testing.T) {
	t.Parallel()

	pa := writePlist(
		t, t.TempDir(), "Info.plist", sampleInfoPlist,
	)

	_, err := plistedit.Update(pa, "2.0", "2")
	require.NoError(t, err)

	first, err := os.ReadFile(pa)
	require.NoError(t, err)

	_, err = plistedit.Update(pa, "2.0", "2")
	require.NoError(t, err)

	second, err := os.ReadFile(pa)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLocate_project_name_candidate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	want := writePlist(
		t, root, "ios/MyApp/Info.plist", sampleInfoPlist,
	)

	got, err := plistedit.Locate(root, "MyApp")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocate_app_candidate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	want := writePlist(
		t, root, "ios/App/Info.plist", sampleInfoPlist,
	)

	got, err := plistedit.Locate(root, "MyApp")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocate_walk_fallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	want := writePlist(
		t, root,
		"ios/Generated/Deep/Info.plist",
		sampleInfoPlist,
	)

	got, err := plistedit.Locate(root, "")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocate_skips_pods_and_build(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePlist(
		t, root,
		"ios/Pods/Dep/Info.plist", sampleInfoPlist,
	)
	writePlist(
		t, root,
		"ios/build/Out/Info.plist", sampleInfoPlist,
	)
	want := writePlist(
		t, root,
		"ios/Real/Info.plist", sampleInfoPlist,
	)

	got, err := plistedit.Locate(root, "")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocate_only_pods_is_not_found(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePlist(
		t, root,
		"ios/Pods/Dep/Info.plist", sampleInfoPlist,
	)

	_, err := plistedit.Locate(root, "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, plistedit.ErrNotFound))
}

func TestLocate_no_ios_dir(t *testing.T) {
	t.Parallel()

	_, err := plistedit.Locate(t.TempDir(), "MyApp")

	require.Error(t, err)
	assert.True(t, errors.Is(err, plistedit.ErrNotFound))
}
