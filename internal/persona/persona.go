// Package persona owns the static persona configuration and assembles
// every prompt sent to the text-generation backend. It performs no I/O
// after load time.
package persona

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Exchange is one exemplar request/response pair shown to the model.
type Exchange struct {
	Request  string `json:"request"`
	Response string `json:"response"`
}

// Constraints are the persona's fixed thinking-model rules.
type Constraints struct {
	DataSource string `json:"dataSource"`
	SpaceTime  string `json:"spaceTime"`
}

// Persona is the static character configuration, loaded once at process
// start and immutable afterwards.
type Persona struct {
	Name              string            `json:"name"`
	Greeting          string            `json:"greeting"`
	BaseInstruction   string            `json:"baseSystemInstruction"`
	Constraints       Constraints       `json:"threeDimensionConstraints"`
	SymbolTranslation map[string]string `json:"symbolTranslation"`
	BreakRules        string            `json:"breakRules"`
	Exemplars         []Exchange        `json:"exemplars"`
}

// Load reads and validates a persona config file.
func Load(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persona config: %w", err)
	}
	return Parse(data)
}

// Parse validates raw JSON against the persona schema and decodes it.
func Parse(data []byte) (*Persona, error) {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("persona config: validation execution failed: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		msg := errs[0].String()
		if len(errs) > 1 {
			msg = fmt.Sprintf("%s (and %d more)", msg, len(errs)-1)
		}
		return nil, fmt.Errorf("persona config: schema validation failed: %s", msg)
	}

	var p Persona
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("persona config: %w", err)
	}
	return &p, nil
}
