package scanning

// ExpenseData contains extracted information from a receipt or invoice
type ExpenseData struct {
	Provider string  `json:"provider"`
	Date     string  `json:"date"` // ISO 8601 format
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts expense fields
	ScanReceipt(imageData []byte, contentType string) (*ExpenseData, error)
	// Close closes the scanner and releases resources
	Close() error
}

// expenseScanPrompt is the shared prompt used by all LLM providers for scanning receipts
const expenseScanPrompt = `You are analyzing a receipt or invoice document. Carefully read all text in the image and extract the following information:

1. **Provider**: Look for the merchant name, store name, or business name at the top of the receipt. This is usually the largest text or in a header. Examples: "Gasolinera Cepsa", "Repsol", "Mercadona", "Renfe".

2. **Date**: Find the transaction date, purchase date, or invoice date on the receipt. Convert it to ISO 8601 format (YYYY-MM-DD). Look for dates near the top or bottom of the receipt. Common formats: DD/MM/YYYY, MM/DD/YYYY, or written dates.

3. **Category**: Classify the expense as exactly one of: comida, peajes, gasolina, transporte, alojamiento, ocio, servicios, varios, ingreso. Use "varios" when unsure.

4. **Total Amount**: Find the final total, grand total, or amount due in EUR. This is usually at the bottom of the receipt, often labeled as "TOTAL", "IMPORTE", or similar. Extract only the numeric value (e.g., 42.75 for 42,75 EUR).

Return ONLY valid JSON in this exact format:
{
  "provider": "Business Name",
  "date": "YYYY-MM-DD",
  "category": "varios",
  "amount": 0.00
}

Important:
- The provider must be the actual business name from the receipt
- The date must be in YYYY-MM-DD format
- The category must be one of the nine values listed above, lowercase
- The amount must be a number (not a string), representing euros and cents
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
