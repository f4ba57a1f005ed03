package translator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
)

// ExtractObject returns the first JSON-object-shaped substring of reply.
// The scan starts at the first '{' and stops at the brace that balances it,
// ignoring braces inside string literals. When the braces never balance the
// span runs to the last '}' so the parser can report what is wrong with it.
func ExtractObject(reply string) (string, bool) {
	start := strings.IndexByte(reply, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(reply); i++ {
		ch := reply[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return reply[start : i+1], true
			}
		}
	}

	end := strings.LastIndexByte(reply, '}')
	if end <= start {
		return "", false
	}
	return reply[start : end+1], true
}

type rawCommand struct {
	Cmd    *string         `json:"cmd"`
	Params json.RawMessage `json:"params"`
}

func parseCommand(object string) (*models.CommandDescriptor, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &fields); err != nil {
		return nil, newError(KindParse, err)
	}

	var raw rawCommand
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return nil, newError(KindSchema, err)
	}

	if raw.Cmd == nil || strings.TrimSpace(*raw.Cmd) == "" {
		return nil, newError(KindSchema, fmt.Errorf("missing \"cmd\""))
	}
	if len(raw.Params) == 0 {
		return nil, newError(KindSchema, fmt.Errorf("missing \"params\""))
	}

	params, err := decodeParams(raw.Params)
	if err != nil {
		return nil, newError(KindSchema, err)
	}

	desc := models.NewCommandDescriptor(strings.TrimSpace(*raw.Cmd), params)
	if desc.Path == "" {
		return nil, newError(KindSchema, fmt.Errorf("\"cmd\" %q names no menu path", *raw.Cmd))
	}
	return desc, nil
}

func decodeParams(data json.RawMessage) (map[string]string, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, fmt.Errorf("\"params\" must be an object")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var values map[string]interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("\"params\" must be an object: %w", err)
	}

	params := make(map[string]string, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case string:
			params[k] = val
		case json.Number:
			params[k] = val.String()
		case bool:
			params[k] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("param %q must be a scalar, got %T", k, v)
		}
	}

	return params, nil
}
