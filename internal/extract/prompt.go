package extract

import (
	"encoding/json"
	"strings"
)

// Prompts for the three stages. Each embeds the relevant prior data and pins
// the expected JSON shape with an example, which keeps small local models on
// format far more reliably than prose instructions alone.

func buildNormalizationPrompt(lines []string) string {
	var b strings.Builder
	b.WriteString("You are a financial document parser.\n")
	b.WriteString("Given OCR output of a bill or receipt, return the clean numeric amounts only.\n\n")
	b.WriteString("OCR lines:\n")
	b.WriteString(mustJSON(lines))
	b.WriteString("\n\nTasks:\n")
	b.WriteString("1. Correct OCR mistakes in numbers (letter O read as digit 0, letter l as digit 1, and similar confusions).\n")
	b.WriteString("2. Return JSON ONLY in this format:\n")
	b.WriteString(`{
  "normalized_amounts": [1200, 1000, 200, 10],
  "normalization_confidence": 0.82
}`)
	return b.String()
}

func buildClassificationPrompt(lines []string, amounts []float64) string {
	var b strings.Builder
	b.WriteString("You are a financial document parser.\n")
	b.WriteString("Given OCR lines and normalized amounts, classify each amount by its context.\n\n")
	b.WriteString("OCR lines:\n")
	b.WriteString(mustJSON(lines))
	b.WriteString("\n\nNormalized amounts:\n")
	b.WriteString(mustJSON(amounts))
	b.WriteString("\n\nTasks:\n")
	b.WriteString("1. Map each amount to exactly one of: total_bill, paid, due, discount, unknown.\n")
	b.WriteString("2. Return JSON ONLY in this format:\n")
	b.WriteString(`{
  "amounts": [
    {"type": "total_bill", "value": 1200},
    {"type": "paid", "value": 1000},
    {"type": "due", "value": 200},
    {"type": "discount", "value": 10}
  ],
  "confidence": 0.80
}`)
	return b.String()
}

func buildFinalPrompt(lines []string, classified []ClassifiedAmount) string {
	var b strings.Builder
	b.WriteString("You are a financial document parser.\n")
	b.WriteString("Given OCR lines and classified amounts, attach currency and provenance.\n\n")
	b.WriteString("OCR lines:\n")
	b.WriteString(mustJSON(lines))
	b.WriteString("\n\nClassified amounts:\n")
	b.WriteString(mustJSON(classified))
	b.WriteString("\n\nTasks:\n")
	b.WriteString("1. Add the currency code (default INR if the document does not name one).\n")
	b.WriteString("2. Include the source text for each amount.\n")
	b.WriteString("3. Give a short summary of the findings.\n")
	b.WriteString("4. Return JSON ONLY in this format:\n")
	b.WriteString(`{
  "currency": "INR",
  "amounts": [
    {"type": "total_bill", "value": 1200, "source": "text: 'Total: INR 1200'"},
    {"type": "paid", "value": 1000, "source": "text: 'Paid: 1000'"},
    {"type": "due", "value": 200, "source": "text: 'Due: 200'"},
    {"type": "discount", "value": 10, "source": "text: 'Discount: 10'"}
  ],
  "summary": "The total bill is INR 1200 with a discount of 10, INR 1000 was paid and INR 200 is due.",
  "status": "ok"
}`)
	return b.String()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
