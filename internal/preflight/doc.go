// Package preflight runs the environment checks reported by `tracksplit status`:
// directory permissions, free space in the staging area, and the external
// binaries from package deps.
package preflight
