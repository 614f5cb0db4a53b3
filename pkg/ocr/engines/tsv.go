package engines

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nodewee/ocr-pipeline/pkg/types"
)

// tsvColumns is the header tesseract writes for its tsv output
var tsvColumns = []string{
	"level", "page_num", "block_num", "par_num", "line_num", "word_num",
	"left", "top", "width", "height", "conf", "text",
}

// ParseTSV reads tesseract tsv output into a token table.
// The text column is taken verbatim after the eleventh tab, so quotes and
// other punctuation in recognized words survive.
func ParseTSV(data []byte) (*types.TokenTable, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	table := types.NewTokenTable(bytes.Count(data, []byte("\n")))
	headerSeen := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", len(tsvColumns))
		if !headerSeen {
			if fields[0] != tsvColumns[0] {
				return nil, fmt.Errorf("unexpected tsv header: %q", line)
			}
			headerSeen = true
			continue
		}

		if len(fields) < len(tsvColumns)-1 {
			return nil, fmt.Errorf("tsv line %d: expected %d columns, got %d", lineNo, len(tsvColumns), len(fields))
		}

		var ints [10]int
		for i := range ints {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("tsv line %d: invalid %s %q", lineNo, tsvColumns[i], fields[i])
			}
			ints[i] = v
		}

		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			return nil, fmt.Errorf("tsv line %d: invalid conf %q", lineNo, fields[10])
		}

		text := ""
		if len(fields) == len(tsvColumns) {
			text = fields[11]
		}

		table.Append(types.Token{
			Level:      ints[0],
			PageNum:    ints[1],
			BlockNum:   ints[2],
			ParNum:     ints[3],
			LineNum:    ints[4],
			WordNum:    ints[5],
			BBox:       types.BoundingBox{Left: ints[6], Top: ints[7], Width: ints[8], Height: ints[9]},
			Confidence: conf,
			Text:       text,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tsv: %w", err)
	}
	if !headerSeen {
		return nil, fmt.Errorf("empty tsv output")
	}

	return table, nil
}
