package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const modelOutputSchema = `{
  "type": "object",
  "required": ["intent", "entities"],
  "properties": {
    "intent": {
      "type": "string",
      "enum": ["product_info", "order_status", "order_tracking", "greeting", "fallback"]
    },
    "entities": {
      "type": ["object", "null"],
      "properties": {
        "product":      {"type": ["string", "null"]},
        "order_number": {"type": ["string", "null"]},
        "email":        {"type": ["string", "null"]}
      }
    }
  }
}`

var outputSchema = mustSchema(modelOutputSchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("intent: invalid model output schema: %v", err))
	}
	return schema
}

var ErrInvalidModelOutput = errors.New("invalid model output")

// ParseModelOutput validates raw model text against the classification schema
// and converts it to a Result. Nothing about raw is trusted.
func ParseModelOutput(raw string) (Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, fmt.Errorf("%w: empty", ErrInvalidModelOutput)
	}

	res, err := outputSchema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}
	if !res.Valid() {
		msgs := make([]string, len(res.Errors()))
		for i, desc := range res.Errors() {
			msgs[i] = desc.String()
		}
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidModelOutput, strings.Join(msgs, "; "))
	}

	var out struct {
		Intent   Intent `json:"intent"`
		Entities *struct {
			Product     *string `json:"product"`
			OrderNumber *string `json:"order_number"`
			Email       *string `json:"email"`
		} `json:"entities"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}

	result := Result{Intent: out.Intent, Source: SourceModel}
	if out.Entities != nil {
		result.Entities = Entities{
			Product:     entityValue(out.Entities.Product),
			OrderNumber: strings.TrimPrefix(entityValue(out.Entities.OrderNumber), "#"),
			Email:       entityValue(out.Entities.Email),
		}
	}
	return result, nil
}

// entityValue drops nulls and the "..." placeholder echoed from the prompt.
func entityValue(v *string) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(*v)
	if s == "..." {
		return ""
	}
	return s
}
