// Package mcp exposes a launcher client as Model Context Protocol tools.
//
// The server registers login, launch, download, fabric, forge and quit
// tools and serves them over stdio. Tools can also be invoked directly
// through CallTool.
package mcp
