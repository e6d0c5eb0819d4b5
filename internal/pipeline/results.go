package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals used when printing confidences.
const DefaultPrecision = 2

// ToJSONText serializes a single TextResult to pretty JSON.
func ToJSONText(res *TextResult) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToJSONTexts serializes multiple TextResult entries to pretty JSON.
func ToJSONTexts(results []*TextResult) (string, error) {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToPlainText renders one "Language value" line per confidence. A negative
// precision uses DefaultPrecision.
func ToPlainText(res *TextResult, precision int) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	if len(res.Confidences) == 0 {
		return res.Language.String(), nil
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	lines := make([]string, 0, len(res.Confidences))
	for _, c := range res.Confidences {
		lines = append(lines, c.Language.String()+" "+strconv.FormatFloat(c.Value, 'f', precision, 64))
	}
	return strings.Join(lines, "\n"), nil
}

// ToCSVText exports the confidences of one result as CSV with header.
func ToCSVText(res *TextResult, precision int) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"rank", "language", "iso_code", "confidence"})
	for i, c := range res.Confidences {
		_ = w.Write([]string{
			strconv.Itoa(i + 1),
			c.Language.String(),
			c.Language.IsoCode639_1(),
			strconv.FormatFloat(c.Value, 'f', precision, 64),
		})
	}
	w.Flush()
	return buf.String(), w.Error()
}

// ValidateTextResult performs simple consistency checks.
func ValidateTextResult(res *TextResult) error {
	if res == nil {
		return errors.New("nil result")
	}
	if res.Characters < 0 {
		return fmt.Errorf("negative character count %d", res.Characters)
	}
	if len(res.Confidences) == 0 {
		return nil
	}
	if res.Confidences[0].Language != res.Language {
		return fmt.Errorf("language %s does not lead confidences", res.Language)
	}
	for i, c := range res.Confidences {
		if c.Value <= 0 || c.Value > 1 {
			return fmt.Errorf("confidence %d out of range: %v", i, c.Value)
		}
		if i > 0 && c.Value > res.Confidences[i-1].Value {
			return fmt.Errorf("confidence %d out of order", i)
		}
	}
	return nil
}
