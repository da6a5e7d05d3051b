package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/lvillar/pdffill"
	"github.com/lvillar/pdffill/compose"
	"github.com/lvillar/pdffill/config"
	"github.com/lvillar/pdffill/overlay"
)

// RegisterDefaultTools adds the fill, check and inspect tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(s.fillTemplateTool())
	s.AddTool(s.checkConfigTool())
	s.AddTool(s.templateInfoTool())
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing '%s' argument", key)
	}
	return v, nil
}

// composerFor builds a composer honoring the optional pageSize and
// stylesPath arguments.
func (s *Server) composerFor(args map[string]any) (*compose.Composer, error) {
	var opts []compose.Option
	if size, ok := args["pageSize"].(string); ok && size != "" {
		opts = append(opts, compose.WithPageSize(size))
	}
	if path, ok := args["stylesPath"].(string); ok && path != "" {
		ss, err := overlay.LoadStyleSheetFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, compose.WithStyleSheet(ss))
	}
	return s.composer(opts...)
}

func jsonResult(v any) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: string(data)}}}, nil
}

func (s *Server) fillTemplateTool() Tool {
	return Tool{
		Name:        "fill_template",
		Description: "Fill a PDF template with the values of a content file placed at the coordinates of a position file. Writes outputPath if given, otherwise returns the PDF as base64.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"contentPath":  stringProp("Path to the content file (name = text or drawing directive)"),
				"positionPath": stringProp("Path to the position file (name = x,y[,width[,style]])"),
				"templatePath": stringProp("Path to the template PDF; its first page is the background"),
				"outputPath":   stringProp("Optional file path to save the PDF. If omitted, returns base64."),
				"pageSize":     stringProp("Output page size: A3, A4, A5, Letter, Legal or Tabloid. Default A4."),
				"stylesPath":   stringProp("Optional YAML style sheet"),
			},
			"required": []string{"contentPath", "positionPath", "templatePath"},
		},
		Handler: s.handleFillTemplate,
	}
}

func (s *Server) handleFillTemplate(args map[string]any) (ToolResult, error) {
	contentPath, err := stringArg(args, "contentPath")
	if err != nil {
		return ToolResult{}, err
	}
	positionPath, err := stringArg(args, "positionPath")
	if err != nil {
		return ToolResult{}, err
	}
	templatePath, err := stringArg(args, "templatePath")
	if err != nil {
		return ToolResult{}, err
	}
	c, err := s.composerFor(args)
	if err != nil {
		return ToolResult{}, err
	}

	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		pages, err := c.FillFiles(contentPath, positionPath, templatePath, outputPath)
		if err != nil {
			return ToolResult{}, err
		}
		return ToolResult{
			Content: []ContentBlock{{
				Type: "text",
				Text: fmt.Sprintf("Filled %s into %s (%d page(s))", templatePath, outputPath, pages),
			}},
		}, nil
	}

	bg, err := overlay.OpenBackground(templatePath)
	if err != nil {
		return ToolResult{}, err
	}
	positions, err := config.ReadPositions(positionPath, c.PositionDefaults())
	if err != nil {
		return ToolResult{}, err
	}
	contents, err := config.ReadContents(contentPath, c.Expander())
	if err != nil {
		return ToolResult{}, err
	}
	var buf bytes.Buffer
	pages, err := c.Fill(&buf, bg, positions, contents)
	if err != nil {
		return ToolResult{}, err
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("Filled %s (%d page(s), %d bytes). Base64 data:\n%s", templatePath, pages, buf.Len(), encoded),
		}},
	}, nil
}

func (s *Server) checkConfigTool() Tool {
	return Tool{
		Name:        "check_config",
		Description: "Parse a content file and a position file without rendering. Reports the names found, annotations skipped, and every content item that lacks a position or uses an unknown style.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"contentPath":  stringProp("Path to the content file"),
				"positionPath": stringProp("Path to the position file"),
				"pageSize":     stringProp("Output page size used for default widths. Default A4."),
				"stylesPath":   stringProp("Optional YAML style sheet"),
			},
			"required": []string{"contentPath", "positionPath"},
		},
		Handler: s.handleCheckConfig,
	}
}

type checkReport struct {
	OK          bool              `json:"ok"`
	Positions   []string          `json:"positions"`
	Contents    []string          `json:"contents"`
	Annotations []string          `json:"annotations,omitempty"`
	Kinds       map[string]string `json:"kinds"`
	Problems    []string          `json:"problems,omitempty"`
}

func (s *Server) handleCheckConfig(args map[string]any) (ToolResult, error) {
	contentPath, err := stringArg(args, "contentPath")
	if err != nil {
		return ToolResult{}, err
	}
	positionPath, err := stringArg(args, "positionPath")
	if err != nil {
		return ToolResult{}, err
	}
	c, err := s.composerFor(args)
	if err != nil {
		return ToolResult{}, err
	}

	report := checkReport{Kinds: make(map[string]string)}
	positions, err := config.ReadPositions(positionPath, c.PositionDefaults())
	if err != nil {
		report.Problems = append(report.Problems, err.Error())
		return jsonResult(report)
	}
	contents, err := config.ReadContents(contentPath, c.Expander())
	if err != nil {
		report.Problems = append(report.Problems, err.Error())
		return jsonResult(report)
	}

	report.Positions = positions.Names()
	for name, content := range contents.All() {
		if compose.Annotation(name) {
			report.Annotations = append(report.Annotations, name)
			continue
		}
		report.Contents = append(report.Contents, name)
		report.Kinds[name] = contentKind(content)
	}
	for _, err := range c.Check(positions, contents) {
		report.Problems = append(report.Problems, err.Error())
	}
	report.OK = len(report.Problems) == 0
	return jsonResult(report)
}

func contentKind(c pdffill.Content) string {
	switch v := c.(type) {
	case pdffill.Text:
		return "text"
	case pdffill.Primitive:
		if !v.Kind.Known() {
			return string(v.Kind) + " (unsupported)"
		}
		return string(v.Kind)
	case pdffill.Symbol:
		return string(v.Kind)
	}
	return "unknown"
}

func (s *Server) templateInfoTool() Tool {
	return Tool{
		Name:        "template_info",
		Description: "Inspect a template PDF: first page box, page count, and the scale applied to stretch it onto the output page.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":     stringProp("Path to the template PDF"),
				"pageSize": stringProp("Output page size. Default A4."),
			},
			"required": []string{"path"},
		},
		Handler: s.handleTemplateInfo,
	}
}

func (s *Server) handleTemplateInfo(args map[string]any) (ToolResult, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return ToolResult{}, err
	}
	c, err := s.composerFor(args)
	if err != nil {
		return ToolResult{}, err
	}
	bg, err := overlay.OpenBackground(path)
	if err != nil {
		return ToolResult{}, err
	}
	pageW, pageH := c.PageSize()
	tpl, err := overlay.NewPageTemplate(bg, pageW, pageH)
	if err != nil {
		return ToolResult{}, err
	}
	xscale, yscale := tpl.Scale()
	return jsonResult(map[string]any{
		"path":       bg.Path,
		"width":      bg.Width,
		"height":     bg.Height,
		"pages":      bg.Pages,
		"pageWidth":  pageW,
		"pageHeight": pageH,
		"xscale":     xscale,
		"yscale":     yscale,
	})
}
