package server

// rulePackSchema is the JSON Schema a POST /api/v1/rules body must
// satisfy before it is handed to rule.New.
const rulePackSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["entries"],
  "properties": {
    "entries": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["input"],
        "properties": {
          "input": {"type": "string", "minLength": 1},
          "output": {"type": "string"},
          "next": {"type": "string"}
        }
      }
    },
    "direct_inputtable_expr": {"type": "string"},
    "alphabet": {"type": "string"},
    "allow_direct_next_input": {"type": "boolean"},
    "max_entries": {"type": "integer", "minimum": 0}
  }
}`
