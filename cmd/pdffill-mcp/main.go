// Command pdffill-mcp is an MCP (Model Context Protocol) server that exposes
// template filling to AI assistants.
//
// # Installation
//
//	go install github.com/lvillar/pdffill/cmd/pdffill-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "pdffill": {
//	      "command": "pdffill-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - fill_template: Fill a template from a content file and a position file
//   - check_config: Parse both files and report missing positions and errors
//   - template_info: Template page box, page count and scale
//
// # Available Resources
//
//   - pdffill://tokens : Current values of the dynamic date and time tokens
//   - pdffill://styles?path=... : Paragraph styles, optionally from a YAML file
package main

import (
	"fmt"
	"os"

	"github.com/lvillar/pdffill/compose"
	"github.com/lvillar/pdffill/mcp"
)

func main() {
	var opts []compose.Option
	if size := os.Getenv("PDFFILL_PAGESIZE"); size != "" {
		opts = append(opts, compose.WithPageSize(size))
	}
	server := mcp.NewServer(opts...)

	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pdffill-mcp: %v\n", err)
		os.Exit(1)
	}
}
