package engines

import (
	"errors"
	"strconv"
	"strings"
)

// ErrGosseractNotEnabled is returned when the in-process engine was not compiled in
var ErrGosseractNotEnabled = errors.New("gosseract engine not enabled: rebuild with -tags gosseract")

// engineArgs is the engine config string split into the parts engines act on.
// Raw keeps every field in order for engines that take a command line.
// Ignored holds the options libtesseract cannot take after init, such as
// --oem and --dpi; only the CLI engine honours them.
type engineArgs struct {
	Raw       []string
	PSM       int // -1 when unset
	Variables map[string]string
	Ignored   []string
}

// parseEngineArgs splits a tesseract option string such as
// "--psm 6 -c preserve_interword_spaces=1". Unknown fields are kept in Raw only.
func parseEngineArgs(config string) engineArgs {
	args := engineArgs{
		Raw:       strings.Fields(config),
		PSM:       -1,
		Variables: make(map[string]string),
	}

	for i := 0; i < len(args.Raw); i++ {
		field := args.Raw[i]
		name, value, hasValue := strings.Cut(field, "=")
		if !hasValue && i+1 < len(args.Raw) && takesValue(field) {
			i++
			value = args.Raw[i]
		}

		switch name {
		case "--psm":
			if n, err := strconv.Atoi(value); err == nil {
				args.PSM = n
			}
		case "-c":
			if key, val, ok := strings.Cut(value, "="); ok {
				args.Variables[key] = val
			}
		default:
			if value != "" {
				name += " " + value
			}
			args.Ignored = append(args.Ignored, name)
		}
	}

	return args
}

func takesValue(flag string) bool {
	switch flag {
	case "--psm", "--oem", "--dpi", "-c", "-l", "--tessdata-dir", "--user-words", "--user-patterns":
		return true
	}
	return false
}
