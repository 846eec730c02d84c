package forest

import (
	"fmt"
	"strings"
)

// debug utilities

// SketchRecords renders a record run one line per record, indented by
// depth, as "ref: value (closes)". It is intended for test failures and
// debugging. A malformed run is rendered up to the offending record.
func SketchRecords[T any](records []Node[T]) string {
	var sb strings.Builder
	depth := uint32(0)
	for i, rec := range records {
		if rec.Closes > depth+1 {
			fmt.Fprintf(&sb, "%d: malformed, closes %d with %d open\n", i, rec.Closes, depth+1)
			break
		}
		fmt.Fprintf(&sb, "%d:%s %v (%d)\n", i, strings.Repeat("  ", int(depth)), rec.Value, rec.Closes)
		depth = StepDepth(depth, rec.Closes)
	}
	return sb.String()
}
