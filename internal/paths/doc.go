// Package paths turns path strings and URIs from different sources into one
// comparable identity space.
//
// Repository locations reach gitprov as native filesystem paths ("C:\src\app",
// "/home/me/app"), file URIs, remote virtual-filesystem URIs
// ("vscode-vfs://github/owner/repo") and collaborative-session paths
// ("vsls:/~0/src"). The helpers here normalize those inputs and answer the
// questions the provider layer keeps asking: is this file inside that
// repository, what is its repository-relative path, which shared root of a
// session does it live under.
//
// # Platforms
//
// Separator handling, drive letters and case sensitivity depend on the host.
// The package-level functions use [Host]; the same operations exist as methods
// on [Platform] so callers and tests can apply another platform's rules:
//
//	paths.Windows.Normalize(`C:\Repo\`) // "c:/Repo"
//	paths.Linux.IsDescendant("/repo/src", "/repo") // true
//
// Case sensitivity is derived from the platform (Linux exact, everyone else
// case-insensitive). This is an approximation: a case-sensitive volume on
// macOS or a case-insensitive one on Linux is not detected.
//
// # Failure behavior
//
// Nothing in this package returns an error or panics on odd input. Malformed
// URIs are treated as plain paths and empty strings pass through.
package paths
