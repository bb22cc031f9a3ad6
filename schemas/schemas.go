// Package schemas embeds the JSON Schemas describing the task-events wire
// contract. Consumers validate incoming messages against these before
// decoding them into typed events.
package schemas

import "embed"

//go:embed events/*.json
var SchemasFS embed.FS
