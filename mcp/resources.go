package mcp

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lvillar/pdffill/overlay"
)

// RegisterDefaultResources adds the built-in resources to the server.
// Resources use the pdffill:// scheme.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "pdffill://tokens",
		Name:        "Dynamic Tokens",
		Description: "Current values of the date and time tokens that content files may contain, such as <date> and <time>.",
		MIMEType:    "application/json",
		Handler:     s.handleTokensResource,
	})

	s.AddResource(Resource{
		URI:         "pdffill://styles",
		Name:        "Paragraph Styles",
		Description: "Paragraph styles that positions may name. Pass a YAML style sheet as a query parameter to see its effect: pdffill://styles?path=/path/to/styles.yaml",
		MIMEType:    "application/json",
		Handler:     handleStylesResource,
	})
}

func extractPathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid resource URI %q: %w", uri, err)
	}
	return u.Query().Get("path"), nil
}

func jsonContent(uri string, v any) ([]ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: string(data)}}, nil
}

func (s *Server) handleTokensResource(uri string) ([]ResourceContent, error) {
	c, err := s.composer()
	if err != nil {
		return nil, err
	}
	return jsonContent(uri, c.Expander().Values())
}

func handleStylesResource(uri string) ([]ResourceContent, error) {
	path, err := extractPathFromURI(uri)
	if err != nil {
		return nil, err
	}
	ss := overlay.DefaultStyleSheet()
	if path != "" {
		if ss, err = overlay.LoadStyleSheetFile(path); err != nil {
			return nil, err
		}
	}

	styles := make([]map[string]any, 0)
	for _, name := range ss.Names() {
		st, _ := ss.Get(name)
		styles = append(styles, map[string]any{
			"name":      st.Name,
			"font":      st.Font,
			"fontStyle": st.FontStyle,
			"size":      st.Size,
			"leading":   st.Leading,
			"align":     st.Align,
		})
	}
	return jsonContent(uri, map[string]any{"styles": styles})
}
