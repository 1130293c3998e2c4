/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"oceanbase-mcp/internal/resultset"
)

// Output formats of a hybrid search
const (
	FormatJSON     = resultset.FormatJSON
	FormatMarkdown = resultset.FormatMarkdown
)

// NoResultsMessage is the Markdown output for an empty hit list
const NoResultsMessage = "No results found."

// ErrUnsupportedFormat is returned for formats other than json and md
var ErrUnsupportedFormat = errors.New("unsupported format")

// CheckFormat returns ErrUnsupportedFormat for anything but json and md
func CheckFormat(format string) error {
	if format == FormatJSON || format == FormatMarkdown {
		return nil
	}
	return fmt.Errorf("%w: %s. Supported formats: json, md", ErrUnsupportedFormat, format)
}

// FormatHits renders hits as a {results, count} JSON payload or a Markdown
// table
func FormatHits(hits []Hit, format string) (resultset.Output, error) {
	switch format {
	case FormatJSON:
		if hits == nil {
			hits = []Hit{}
		}
		return resultset.Output{
			Kind: resultset.KindJSON,
			JSON: map[string]interface{}{"results": hits, "count": len(hits)},
		}, nil
	case FormatMarkdown:
		return resultset.Output{Kind: resultset.KindText, Text: MarkdownTable(hits)}, nil
	default:
		return resultset.Output{}, CheckFormat(format)
	}
}

// MarkdownTable renders hits as a pipe table whose header is the sorted
// union of all hit keys. Literal pipes in values are escaped.
func MarkdownTable(hits []Hit) string {
	if len(hits) == 0 {
		return NoResultsMessage
	}

	keySet := make(map[string]struct{})
	for _, hit := range hits {
		for k := range hit {
			keySet[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(keySet))
	for k := range keySet {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}

	lines := make([]string, 0, len(hits)+2)
	lines = append(lines, markdownRow(headers), markdownRow(separators))
	for _, hit := range hits {
		cells := make([]string, len(headers))
		for i, key := range headers {
			cells[i] = strings.ReplaceAll(resultset.FormatValue(hit[key]), "|", `\|`)
		}
		lines = append(lines, markdownRow(cells))
	}
	return strings.Join(lines, "\n")
}

func markdownRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
