package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nodewee/ocr-pipeline/pkg/ocr"
	"github.com/nodewee/ocr-pipeline/pkg/types"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// pageOutput adds optional line grouping to a page for structured output
type pageOutput struct {
	types.PageResult `yaml:",inline"`
	Lines            []types.Line `json:"lines,omitempty" yaml:"lines,omitempty"`
}

type resultOutput struct {
	Multi bool         `json:"multi" yaml:"multi"`
	Pages []pageOutput `json:"pages" yaml:"pages"`
}

// renderResult writes a result in the requested format. A single result is
// written as one page, a multi-page result as the full page list.
func renderResult(w io.Writer, result *types.Result, format string, withLines bool) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return renderText(w, result, withLines)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(structuredOutput(result, withLines))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(structuredOutput(result, withLines)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return utils.NewValidationError(fmt.Sprintf("unknown output format: %s (use text, json or yaml)", format), nil)
	}
}

func structuredOutput(result *types.Result, withLines bool) interface{} {
	pages := make([]pageOutput, len(result.Pages))
	for i, page := range result.Pages {
		pages[i] = pageOutput{PageResult: page}
		if withLines {
			pages[i].Lines = ocr.GroupLines(pageWords(page), 0)
		}
	}

	if !result.Multi && len(pages) == 1 {
		return pages[0]
	}
	return resultOutput{Multi: result.Multi, Pages: pages}
}

// pageWords returns the positioned words of a page; plain text pages have none
func pageWords(page types.PageResult) []types.Word {
	switch page.Kind {
	case types.ResultFiltered:
		return page.Filtered.Words
	case types.ResultData:
		return ocr.FilterTokens(page.Data, types.NoConfidence).Words
	default:
		return nil
	}
}

func renderText(w io.Writer, result *types.Result, withLines bool) error {
	for i, page := range result.Pages {
		if result.Multi {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "--- Page %d ---\n", page.Page)
		}
		renderPageText(w, page, withLines)
	}
	return nil
}

func renderPageText(w io.Writer, page types.PageResult, withLines bool) {
	if withLines && page.Kind != types.ResultText {
		for i, line := range ocr.GroupLines(pageWords(page), 0) {
			fmt.Fprintf(w, "Line %d: %s (%.1f%%)\n", i+1, line.Text, lineConfidence(line))
		}
		return
	}

	switch page.Kind {
	case types.ResultFiltered:
		f := page.Filtered
		fmt.Fprintln(w, f.FullText)
		fmt.Fprintf(w, "\nAverage confidence: %.2f%% (%d words)\n", f.AvgConfidence, f.TotalWords)

	case types.ResultData:
		table := page.Data
		fmt.Fprintf(w, "Total elements detected: %d\n", table.Len())
		fmt.Fprintln(w, "level\tpage\tblock\tpar\tline\tword\tleft\ttop\twidth\theight\tconf\ttext")
		for i := 0; i < table.Len(); i++ {
			tok := table.Token(i)
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%g\t%s\n",
				tok.Level, tok.PageNum, tok.BlockNum, tok.ParNum, tok.LineNum, tok.WordNum,
				tok.BBox.Left, tok.BBox.Top, tok.BBox.Width, tok.BBox.Height,
				tok.Confidence, tok.Text)
		}

	default:
		fmt.Fprintln(w, page.Text)
	}
}

func lineConfidence(line types.Line) float64 {
	if len(line.Words) == 0 {
		return 0
	}
	var sum float64
	for _, word := range line.Words {
		sum += word.Confidence
	}
	return sum / float64(len(line.Words))
}
