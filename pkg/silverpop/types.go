package silverpop

import (
	"strings"

	"github.com/natserract/silverpop/pkg/codec"
)

// CreatedFromAPI is the CREATED_FROM value marking a recipient as created
// through the API.
const CreatedFromAPI = 2

// Result is the decoded Envelope.Body.RESULT subtree of a call, with
// COLUMNS normalized into a name to value map.
type Result map[string]any

// Get returns the leaf value stored under key, or "" when absent or not
// a leaf.
func (r Result) Get(key string) string {
	s, _ := r[key].(string)
	return s
}

// Success reports whether SUCCESS is "true" or "success", ignoring case.
func (r Result) Success() bool {
	flag, ok := r[keySuccess].(string)
	if !ok {
		flag = "false"
	}
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "true", "success":
		return true
	default:
		return false
	}
}

// Columns returns the normalized COLUMNS map, or nil when the result has
// none.
func (r Result) Columns() map[string]string {
	columns, _ := r[keyColumns].(map[string]string)
	return columns
}

const (
	keyEnvelope  = "Envelope"
	keyBody      = "Body"
	keyResult    = "RESULT"
	keyFault     = "Fault"
	keySuccess   = "SUCCESS"
	keySessionID = "SESSIONID"
	keyColumns   = "COLUMNS"
	keyColumn    = "COLUMN"
	keyName      = "NAME"
	keyValue     = "VALUE"
)

// NewEnvelope wraps the fields of one operation into
// Envelope.Body.<operation>.
func NewEnvelope(operation string, fields codec.Fields) codec.Fields {
	var body any
	if len(fields) > 0 {
		body = fields
	}
	return codec.Fields{
		{Name: keyEnvelope, Value: codec.Fields{
			{Name: keyBody, Value: codec.Fields{
				{Name: operation, Value: body},
			}},
		}},
	}
}

// envelopeOperation returns the operation name wrapped by envelope, or ""
// when envelope was not built by NewEnvelope.
func envelopeOperation(envelope codec.Fields) string {
	for _, env := range envelope {
		if env.Name != keyEnvelope {
			continue
		}
		envFields, _ := env.Value.(codec.Fields)
		for _, body := range envFields {
			if body.Name != keyBody {
				continue
			}
			if bodyFields, ok := body.Value.(codec.Fields); ok && len(bodyFields) > 0 {
				return bodyFields[0].Name
			}
		}
	}
	return ""
}
