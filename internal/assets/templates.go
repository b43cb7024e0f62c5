package assets

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

func parseTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join":     strings.Join,
		"duration": formatSeconds,
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
	}

	// If template path is empty, use fallback directly
	if templatePath == "" {
		tmpl, err := template.New(fallbackName).
			Funcs(funcMap).
			Parse(fallbackTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded template: %w", err)
		}
		return tmpl, nil
	}

	// If template path is provided, it must be valid.
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template file not found or accessible: %w", err)
	}

	fileName := filepath.Base(templatePath)
	tmpl, err := template.New(fileName).
		Funcs(funcMap).
		ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", templatePath, err)
	}
	return tmpl, nil
}

// formatSeconds renders a duration such as "1h5m0s" without sub-second noise.
func formatSeconds(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}
