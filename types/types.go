// types package contains the Salesforce REST API models shared between
// the executor, the schema cache and the renderers.
package types

import "github.com/mitchellh/mapstructure"

// Record is one row of a query result. Salesforce returns records as
// loosely typed JSON objects plus an "attributes" envelope.
type Record map[string]interface{}

// ID returns the record's Id field, or "" when the query did not select
// it.
func (r Record) ID() string {
	if id, ok := r["Id"].(string); ok {
		return id
	}
	return ""
}

// QueryResponse is the body of /services/data/vXX.X/query.
type QueryResponse struct {
	TotalSize      int      `json:"totalSize"`
	Done           bool     `json:"done"`
	NextRecordsURL string   `json:"nextRecordsUrl,omitempty"`
	Records        []Record `json:"records"`
}

// APIError is one element of the error array Salesforce returns on a
// failed request.
type APIError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

func (e APIError) Error() string {
	return e.ErrorCode + ": " + e.Message
}

// SObject is one entry of the describeGlobal listing.
type SObject struct {
	Name      string `mapstructure:"name"`
	Label     string `mapstructure:"label"`
	Custom    bool   `mapstructure:"custom"`
	Queryable bool   `mapstructure:"queryable"`
}

// DescribeGlobalResponse is the body of /sobjects.
type DescribeGlobalResponse struct {
	Encoding     string    `mapstructure:"encoding"`
	MaxBatchSize int       `mapstructure:"maxBatchSize"`
	SObjects     []SObject `mapstructure:"sobjects"`
}

// SObjectField is one field of a describe result.
type SObjectField struct {
	Name  string `mapstructure:"name"`
	Label string `mapstructure:"label"`
	Type  string `mapstructure:"type"`
}

// DescribeObjectResponse is the body of /sobjects/<name>/describe.
type DescribeObjectResponse struct {
	Name   string         `mapstructure:"name"`
	Fields []SObjectField `mapstructure:"fields"`
}

// Decode maps a decoded JSON value onto a typed model. Describe payloads
// carry many keys the models do not declare; those are ignored. Weak
// typing is needed because encoding/json hands every number over as
// float64.
func Decode(raw interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
