// Package format renders query results for the terminal.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/iancoleman/strcase"

	"github.com/soqlgen/soqlgen/types"
)

// JSON pretty-prints the raw result, the way the service returned it.
func JSON(w io.Writer, result *types.QueryResponse) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// Table renders the records as an aligned table. Columns follow the
// query's field selection; fields is the selected field list and may be
// empty when the caller does not know it, in which case the columns are
// derived from the records.
func Table(w io.Writer, result *types.QueryResponse, fields []string) error {
	columns := fields
	if len(columns) == 0 {
		columns = collectColumns(result.Records)
	}
	if len(columns) == 0 {
		_, err := fmt.Fprintf(w, "(%d records)\n", result.TotalSize)
		return err
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for i, column := range columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, headerLabel(column))
	}
	fmt.Fprintln(tw)

	for _, record := range result.Records {
		for i, column := range columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cellValue(record, column))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "(%d records)\n", result.TotalSize)
	return err
}

// headerLabel turns an API field name into a column heading, e.g.
// FirstName -> FIRST NAME and Owner.Name -> OWNER.NAME.
func headerLabel(field string) string {
	return strcase.ToScreamingDelimited(field, ' ', ".", true)
}

// cellValue resolves a possibly dotted column against a record.
// Relationship fields come back as nested objects.
func cellValue(record types.Record, column string) string {
	var value interface{} = map[string]interface{}(record)
	for _, segment := range splitPath(column) {
		nested, ok := value.(map[string]interface{})
		if !ok {
			return ""
		}
		value = nested[segment]
	}
	return renderValue(value)
}

func renderValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}

func splitPath(column string) []string {
	var parts []string
	start := 0
	for i, ch := range column {
		if ch == '.' {
			parts = append(parts, column[start:i])
			start = i + 1
		}
	}
	return append(parts, column[start:])
}

// collectColumns derives a deterministic column set from the records
// themselves, skipping the attributes envelope.
func collectColumns(records []types.Record) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, record := range records {
		for key := range record {
			if key == "attributes" || seen[key] {
				continue
			}
			seen[key] = true
			columns = append(columns, key)
		}
	}
	sort.Strings(columns)

	// Id leads when present, matching the default field set
	for i, column := range columns {
		if column == "Id" {
			copy(columns[1:i+1], columns[:i])
			columns[0] = "Id"
			break
		}
	}
	return columns
}
