package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// knownCategories are the category values accepted by the expense forms.
var knownCategories = map[string]bool{
	"comida":      true,
	"peajes":      true,
	"gasolina":    true,
	"transporte":  true,
	"alojamiento": true,
	"ocio":        true,
	"servicios":   true,
	"varios":      true,
	"ingreso":     true,
}

// parseExpenseJSON parses the JSON response from the LLM provider
func parseExpenseJSON(text string) (*ExpenseData, error) {
	// Remove markdown code blocks if present
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	// Extract just the JSON part
	text = text[startIdx : endIdx+1]

	var data ExpenseData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	// Validate and parse date
	if data.Date != "" {
		// Try to parse the date
		parsedDate, err := time.Parse("2006-01-02", data.Date)
		if err != nil {
			// Try other common formats
			formats := []string{
				"2006/01/02",
				"02/01/2006",
				"01/02/2006",
			}
			parsed := false
			for _, format := range formats {
				if d, e := time.Parse(format, data.Date); e == nil {
					data.Date = d.Format("2006-01-02")
					parsed = true
					break
				}
			}
			if !parsed {
				// If we can't parse it, use today's date
				data.Date = time.Now().Format("2006-01-02")
			}
		} else {
			data.Date = parsedDate.Format("2006-01-02")
		}
	} else {
		// Default to today if no date found
		data.Date = time.Now().Format("2006-01-02")
	}

	// Clean up provider
	data.Provider = strings.TrimSpace(data.Provider)

	// Normalize the category; anything the model invented becomes varios
	data.Category = strings.ToLower(strings.TrimSpace(data.Category))
	if !knownCategories[data.Category] {
		data.Category = "varios"
	}

	return &data, nil
}
