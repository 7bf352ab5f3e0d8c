package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/resources"
	"github.com/teemow/unified-analytics/internal/tools/analytics_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools and resources.
This command introspects the tool definitions and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.

Site keys are taken from the configured sites when available.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = loadEnvFile(globals.envFile)
			return runGenerateDocs(docsRegistry(stringFlagOrEnv(cmd, "sites-file", config.EnvSitesFile)), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// docsRegistry loads the configured sites, or a single example site when none
// are configured. Documentation needs no credentials.
func docsRegistry(sitesFile string) *config.Registry {
	if sites, err := config.LoadRegistry(sitesFile, os.Getenv); err == nil {
		return sites
	}
	sites, _ := config.NewRegistry([]config.SiteConfig{
		{Key: "example", GSCURL: "https://example.com/", GA4PropertyID: "000000000"},
	})
	return sites
}

func runGenerateDocs(sites *config.Registry, outputFile string) error {
	markdown := generateToolsMarkdown(analytics_tools.Tools(sites), sites)

	// Write to output
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

func generateToolsMarkdown(tools []mcp.Tool, sites *config.Registry) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools and resources available when running unified-analytics as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	// Group tools by category
	toolsByCategory := groupToolsByCategory(tools)

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", category, anchor(category)))
	}
	sb.WriteString(fmt.Sprintf("- [Resources](#%s)\n\n", anchor("Resources")))

	// Multi-site note
	sb.WriteString("## Multi-Site Support\n\n")
	sb.WriteString("Every tool accepts an optional `site` parameter naming a configured site:\n\n")
	sb.WriteString(fmt.Sprintf("- **Default behavior:** If `site` is not specified, the first configured site (`%s`) is used\n", sites.Default().Key))
	sb.WriteString(fmt.Sprintf("- **Configured sites:** %s\n", "`"+strings.Join(sites.Keys(), "`, `")+"`"))
	sb.WriteString("- **Unknown sites** return an error payload\n\n")

	// Generate documentation for each category
	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category))

		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(generateResourcesMarkdown(sites.Keys()))

	return sb.String()
}

func anchor(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)

	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		categories[category] = append(categories[category], tool)
	}

	return categories
}

func getCategoryFromToolName(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) == 0 {
		return "Other"
	}

	prefix := parts[0]
	switch prefix {
	case "gsc":
		return "Google Search Console Tools"
	case "ga4":
		return "Google Analytics 4 Tools"
	case "combined", "page":
		return "Combined Tools"
	default:
		return "Other"
	}
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	// Tool name
	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))

	// Description
	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	// Input schema
	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		// Sort properties for consistent output
		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			prop := tool.InputSchema.Properties[name]
			isRequired := contains(tool.InputSchema.Required, name)

			requiredStr := "optional"
			if isRequired {
				requiredStr = "required"
			}

			// Get property type and description from the property map
			propMap, ok := prop.(map[string]interface{})
			if !ok {
				continue
			}

			propType := getPropertyType(propMap)

			sb.WriteString(fmt.Sprintf("- `%s` (%s, %s): ", name, propType, requiredStr))

			// Get description
			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			} else {
				sb.WriteString(fmt.Sprintf("%s parameter", propType))
			}
			if def, ok := propMap["default"]; ok {
				sb.WriteString(fmt.Sprintf(" Default: `%v`.", def))
			}

			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func generateResourcesMarkdown(siteKeys []string) string {
	var sb strings.Builder

	sb.WriteString("## Resources\n\n")
	sb.WriteString("Dashboards return the combined performance report for a period relative to today.\n\n")

	tmpl := resources.DashboardTemplate()
	sb.WriteString(fmt.Sprintf("**Template:** `%s`\n\n", tmpl.URITemplate.Raw()))

	sb.WriteString("| URI | Name | Description |\n")
	sb.WriteString("|---|---|---|\n")
	for _, r := range resources.Dashboards(siteKeys) {
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", r.URI, r.Name, r.Description))
	}
	sb.WriteString("\n")

	return sb.String()
}

func getPropertyType(prop map[string]interface{}) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
