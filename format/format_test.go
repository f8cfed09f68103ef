package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soqlgen/soqlgen/types"
)

func sampleResult() *types.QueryResponse {
	return &types.QueryResponse{
		TotalSize: 2,
		Done:      true,
		Records: []types.Record{
			{
				"attributes": map[string]interface{}{"type": "Contact"},
				"Id":         "003xx0000001",
				"FirstName":  "Ada",
				"Age":        float64(36),
			},
			{
				"attributes": map[string]interface{}{"type": "Contact"},
				"Id":         "003xx0000002",
				"FirstName":  "Grace",
				"Age":        float64(47),
			},
		},
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, JSON(&buf, sampleResult()))

	var decoded types.QueryResponse
	require.Nil(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.TotalSize)
	assert.Len(t, decoded.Records, 2)
}

func TestTableWithSelectedFields(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, Table(&buf, sampleResult(), []string{"FirstName", "Age"}))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "FIRST NAME")
	assert.Contains(t, lines[0], "AGE")
	assert.Contains(t, lines[1], "Ada")
	assert.Contains(t, lines[1], "36")
	assert.Contains(t, lines[2], "Grace")
	assert.Equal(t, "(2 records)", lines[3])
}

func TestTableDerivesColumns(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, Table(&buf, sampleResult(), nil))

	header := strings.Split(buf.String(), "\n")[0]
	// Id leads, the rest is sorted; attributes is skipped
	assert.Regexp(t, `^ID\s+AGE\s+FIRST NAME`, header)
	assert.NotContains(t, header, "ATTRIBUTES")
}

func TestTableNestedColumns(t *testing.T) {
	result := &types.QueryResponse{
		TotalSize: 1,
		Records: []types.Record{
			{
				"Id":    "001",
				"Owner": map[string]interface{}{"Name": "Ada"},
			},
		},
	}

	var buf bytes.Buffer
	require.Nil(t, Table(&buf, result, []string{"Id", "Owner.Name"}))

	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, lines[0], "OWNER.NAME")
	assert.Contains(t, lines[1], "Ada")
}

func TestTableEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, Table(&buf, &types.QueryResponse{TotalSize: 0}, nil))
	assert.Equal(t, "(0 records)\n", buf.String())
}
