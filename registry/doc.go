// Package registry houses implementations of core.DocumentRegistry, the
// session's list of accepted uploads.
package registry
