package ocr

import (
	"sort"
	"strings"

	"github.com/nodewee/ocr-pipeline/pkg/types"
)

// FilterTokens keeps the rows whose trimmed text is non-empty and whose
// confidence is at least minConfidence, in table order.
// AvgConfidence is the mean over the kept rows, 0 when none are kept.
func FilterTokens(table *types.TokenTable, minConfidence float64) *types.FilteredResult {
	result := &types.FilteredResult{Words: []types.Word{}}

	var texts []string
	var sum float64
	for i := 0; i < table.Len(); i++ {
		text := strings.TrimSpace(table.Text[i])
		if text == "" {
			continue
		}
		conf := table.Conf[i]
		if conf < minConfidence {
			continue
		}

		tok := table.Token(i)
		result.Words = append(result.Words, types.Word{
			Text:       text,
			Confidence: conf,
			BBox:       tok.BBox,
		})
		texts = append(texts, text)
		sum += conf
	}

	result.TotalWords = len(result.Words)
	result.FullText = strings.Join(texts, " ")
	if result.TotalWords > 0 {
		result.AvgConfidence = sum / float64(result.TotalWords)
	}
	return result
}

// GroupLines groups words whose vertical centres lie within tolerance pixels of
// a line's running centre. A tolerance <= 0 uses half the median word height.
// Lines come back top to bottom and words left to right.
func GroupLines(words []types.Word, tolerance float64) []types.Line {
	if len(words) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = medianHeight(words) / 2
	}

	sorted := make([]types.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return centerY(sorted[i]) < centerY(sorted[j])
	})

	type band struct {
		words  []types.Word
		center float64
	}
	var bands []*band
	for _, w := range sorted {
		c := centerY(w)
		if n := len(bands); n > 0 {
			last := bands[n-1]
			if abs(c-last.center) <= tolerance {
				last.words = append(last.words, w)
				last.center += (c - last.center) / float64(len(last.words))
				continue
			}
		}
		bands = append(bands, &band{words: []types.Word{w}, center: c})
	}

	lines := make([]types.Line, 0, len(bands))
	for _, b := range bands {
		sort.SliceStable(b.words, func(i, j int) bool {
			return b.words[i].BBox.Left < b.words[j].BBox.Left
		})
		line := types.Line{Words: b.words}
		texts := make([]string, len(b.words))
		for i, w := range b.words {
			texts[i] = w.Text
			line.BBox = line.BBox.Union(w.BBox)
		}
		line.Text = strings.Join(texts, " ")
		lines = append(lines, line)
	}
	return lines
}

func centerY(w types.Word) float64 {
	return float64(w.BBox.Top) + float64(w.BBox.Height)/2
}

func medianHeight(words []types.Word) float64 {
	heights := make([]int, len(words))
	for i, w := range words {
		heights[i] = w.BBox.Height
	}
	sort.Ints(heights)
	mid := len(heights) / 2
	if len(heights)%2 == 1 {
		return float64(heights[mid])
	}
	return float64(heights[mid-1]+heights[mid]) / 2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
