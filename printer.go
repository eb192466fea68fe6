// printer.go — display forms for runtime values.
//
// One rendering is shared by the print builtin, the REPL echo, and the CLI
// result line, so a value always looks the same no matter where it surfaces.
package linger

import (
	"strconv"
	"strings"
)

// FormatValue renders a value for display. Numbers print in the shortest
// decimal form that round-trips, so integer-exact values show no fractional
// part. Strings render verbatim (unquoted), including inside lists. Procedure
// values are opaque.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTNum:
		return formatNum(v.Num())
	case VTBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case VTStr:
		return v.Str()
	case VTList:
		elems := v.List()
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTProc:
		return "<lambda>"
	default:
		return "<unknown>"
	}
}

func formatNum(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
