package engines

import (
	"strings"
	"testing"

	"github.com/nodewee/ocr-pipeline/pkg/types"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t200\t80\t-1\t\n" +
	"2\t1\t1\t0\t0\t0\t10\t40\t110\t12\t-1\t\n" +
	"3\t1\t1\t1\t0\t0\t10\t40\t110\t12\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t10\t40\t110\t12\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t40\t33\t10\t96.063057\tHello\n" +
	"5\t1\t1\t1\t1\t2\t50\t40\t70\t12\t88.5\t\"World\"\n"

func TestParseTSV(t *testing.T) {
	table, err := ParseTSV([]byte(sampleTSV))
	if err != nil {
		t.Fatalf("ParseTSV() error = %v", err)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if table.Len() != 6 {
		t.Fatalf("expected 6 rows, got %d", table.Len())
	}

	if table.Conf[0] != types.NoConfidence || table.Text[0] != "" {
		t.Errorf("page row = conf %v text %q", table.Conf[0], table.Text[0])
	}

	hello := table.Token(4)
	if hello.Text != "Hello" || hello.Confidence != 96.063057 {
		t.Errorf("word row = %+v", hello)
	}
	if hello.BBox != (types.BoundingBox{Left: 10, Top: 40, Width: 33, Height: 10}) {
		t.Errorf("bbox = %+v", hello.BBox)
	}

	if got := table.Text[5]; got != `"World"` {
		t.Errorf("quoted text = %q", got)
	}
	if table.WordCount() != 2 {
		t.Errorf("WordCount() = %d, want 2", table.WordCount())
	}
}

func TestParseTSVCRLFAndMissingText(t *testing.T) {
	data := strings.ReplaceAll(
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"+
			"1\t1\t0\t0\t0\t0\t0\t0\t10\t10\t-1\n", "\n", "\r\n")

	table, err := ParseTSV([]byte(data))
	if err != nil {
		t.Fatalf("ParseTSV() error = %v", err)
	}
	if table.Len() != 1 || table.Text[0] != "" {
		t.Errorf("unexpected table: %+v", table)
	}
}

func TestParseTSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"bad header", "Hello world\n"},
		{"short row", "level\tpage_num\n1\t1\n"},
		{"bad int", "level\ttext\nx\t1\t0\t0\t0\t0\t0\t0\t10\t10\t-1\t\n"},
		{"bad conf", "level\ttext\n1\t1\t0\t0\t0\t0\t0\t0\t10\t10\thigh\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTSV([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseEngineArgs(t *testing.T) {
	tests := []struct {
		config  string
		psm     int
		vars    map[string]string
		raw     int
		ignored []string
	}{
		{"", -1, map[string]string{}, 0, nil},
		{"--psm 6", 6, map[string]string{}, 2, nil},
		{"--psm=11 --oem 1", 11, map[string]string{}, 3, []string{"--oem 1"}},
		{"-c preserve_interword_spaces=1 --psm 4", 4, map[string]string{"preserve_interword_spaces": "1"}, 4, nil},
		{"--dpi 300", -1, map[string]string{}, 2, []string{"--dpi 300"}},
		{"--oem=0 --loose", -1, map[string]string{}, 2, []string{"--oem 0", "--loose"}},
	}

	for _, tt := range tests {
		t.Run(tt.config, func(t *testing.T) {
			args := parseEngineArgs(tt.config)
			if args.PSM != tt.psm {
				t.Errorf("psm = %d, want %d", args.PSM, tt.psm)
			}
			if len(args.Raw) != tt.raw {
				t.Errorf("raw = %v, want %d fields", args.Raw, tt.raw)
			}
			for k, v := range tt.vars {
				if args.Variables[k] != v {
					t.Errorf("variable %s = %q, want %q", k, args.Variables[k], v)
				}
			}
			if strings.Join(args.Ignored, ",") != strings.Join(tt.ignored, ",") {
				t.Errorf("ignored = %q, want %q", args.Ignored, tt.ignored)
			}
		})
	}
}
