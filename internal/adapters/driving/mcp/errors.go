// Package mcp provides an MCP (Model Context Protocol) server adapter for GraphSeek.
// It enables AI assistants to run unified workplace searches with the local signed-in session.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
