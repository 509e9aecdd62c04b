package output

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yllada/windscribe-client/common"
)

// columnSeparator matches the gap between aligned columns: any tab, or a run
// of two or more spaces. A single space belongs to the field ("Short Name").
var columnSeparator = regexp.MustCompile(`\s*\t\s*|\s{2,}`)

// LocationSchema is the normalized header of the locations table.
var LocationSchema = []string{"location", "short_name", "city_name", "label"}

// SplitRow splits a column-aligned line into trimmed, non-empty fields.
func SplitRow(line string) []string {
	parts := columnSeparator.Split(line, -1)
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// NormalizeHeader lower-cases each header column and replaces inner spaces
// with underscores.
func NormalizeHeader(line string) []string {
	cols := SplitRow(Sanitize(line))
	for i, c := range cols {
		cols[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return cols
}

// ValidateHeader checks that line is the locations table header. It fails
// fast on any renamed, missing, extra or reordered column.
func ValidateHeader(line string) error {
	return validateSchema(line, LocationSchema)
}

func validateSchema(line string, schema []string) error {
	got := NormalizeHeader(line)
	if equalStrings(got, schema) {
		return nil
	}
	return common.NewOutputError(common.ErrSchema, "",
		fmt.Sprintf("header columns %v, want %v", got, schema),
		[]string{SanitizeLine(line)})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ParseLocations parses the full output of the locations command. The first
// non-empty line must be the header; every following non-empty line must hold
// exactly one value per column.
func ParseLocations(lines []string) ([]Location, error) {
	rows := NonEmpty(SanitizeLines(lines))
	if len(rows) == 0 {
		return nil, common.NewOutputError(common.ErrUnsupportedOutput, "", "empty locations output", nil)
	}

	if err := ValidateHeader(rows[0]); err != nil {
		return nil, err
	}

	locations := make([]Location, 0, len(rows)-1)
	for i, row := range rows[1:] {
		fields := SplitRow(row)
		if len(fields) != len(LocationSchema) {
			return nil, common.NewOutputError(common.ErrSchema, "",
				fmt.Sprintf("row %d has %d columns, want %d", i+1, len(fields), len(LocationSchema)),
				[]string{row})
		}
		locations = append(locations, NewLocation(fields[0], fields[1], fields[2], fields[3]))
	}

	return locations, nil
}
