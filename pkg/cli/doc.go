// Package cli implements the koenote-proxy command line: serve, config,
// routes, mock and version.
package cli
