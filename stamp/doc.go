// Package stamp orchestrates one version-stamping run over the three mobile
// platform targets: the Android build.gradle, the iOS Info.plist and the Expo
// app.json. Each target is attempted exactly once, in that order; missing
// targets are skipped with a warning, any other failure aborts the run
// immediately. The contract is best effort per platform: there is no rollback,
// so an aborted run can leave earlier platforms already stamped. Callers pass
// an explicit Config and receive an explicit Result; the run never reads the
// process environment.
package stamp
