package persona

// configSchema is the JSON Schema every persona config must satisfy.
// Kept strict on the fields the prompt builder depends on; everything
// else is optional with sane zero values.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "baseSystemInstruction", "threeDimensionConstraints", "symbolTranslation"],
  "properties": {
    "name": { "type": "string", "minLength": 1 },
    "greeting": { "type": "string" },
    "baseSystemInstruction": { "type": "string", "minLength": 1 },
    "threeDimensionConstraints": {
      "type": "object",
      "required": ["dataSource", "spaceTime"],
      "properties": {
        "dataSource": { "type": "string" },
        "spaceTime": { "type": "string" }
      }
    },
    "symbolTranslation": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "breakRules": { "type": "string" },
    "exemplars": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["request", "response"],
        "properties": {
          "request": { "type": "string" },
          "response": { "type": "string" }
        }
      }
    }
  }
}`
