// Package gradle rewrites the versionName and versionCode fields of an
// Android build.gradle file by anchored pattern substitution, leaving every
// other byte of the file untouched.
package gradle
