package engine

// Translation is the result of running a query expression through the
// whole pipeline.
type Translation struct {
	// SOQL is the generated query text.
	SOQL string
	// Fields are the selected field names with the default set applied,
	// in SELECT order. Renderers use them as column order.
	Fields []string
	// OpenBrowser reports that the chain ended with open(): the caller
	// should open the first returned record in a browser.
	OpenBrowser bool
}

// Translate runs input through Tokenize, Parse, Validate and Generate,
// stopping at the first failing stage. The returned error is one of the
// engine error types and, when it implements Positioner, points at the
// offending character of input.
func Translate(input string) (Translation, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return Translation{}, err
	}
	query, err := Parse(tokens)
	if err != nil {
		return Translation{}, err
	}
	validated, err := Validate(query)
	if err != nil {
		return Translation{}, err
	}
	fields := validated.Fields
	if len(fields) == 0 {
		fields = defaultFields
	}
	return Translation{
		SOQL:        Generate(validated),
		Fields:      fields,
		OpenBrowser: validated.OpenBrowser,
	}, nil
}
