// Package expo rewrites the version fields of an Expo app.json: expo.version,
// expo.ios.buildNumber and expo.android.versionCode. Missing intermediate
// objects are created, everything else in the document is preserved.
package expo
