package modelout

const feedbackSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["overallScore", "toneAndStyle", "content", "structure", "skills", "ATS"],
  "properties": {
    "overallScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "toneAndStyle": {"$ref": "#/$defs/category"},
    "content": {"$ref": "#/$defs/category"},
    "structure": {"$ref": "#/$defs/category"},
    "skills": {"$ref": "#/$defs/category"},
    "ATS": {"$ref": "#/$defs/category"}
  },
  "$defs": {
    "category": {
      "type": "object",
      "required": ["score", "tips"],
      "properties": {
        "score": {"type": "integer", "minimum": 0, "maximum": 100},
        "tips": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["type", "tip"],
            "properties": {
              "type": {"enum": ["good", "improve"]},
              "tip": {"type": "string", "minLength": 1}
            }
          }
        }
      }
    }
  }
}`

const questionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["question", "category", "difficulty", "tips"],
    "properties": {
      "question": {"type": "string", "minLength": 1},
      "category": {"enum": ["behavioral", "technical", "situational"]},
      "difficulty": {"enum": ["easy", "medium", "hard"]},
      "tips": {"type": "array", "items": {"type": "string"}}
    }
  }
}`

const evaluationSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["score", "strengths", "improvements", "suggestedAnswer"],
  "properties": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "improvements": {"type": "array", "items": {"type": "string"}},
    "suggestedAnswer": {"type": "string"}
  }
}`
