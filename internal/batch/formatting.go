package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/polyglot/internal/pipeline"
)

// formatBatchResults formats the batch processing results in the specified format.
func formatBatchResults(files []FileResult, format string, precision int) (string, error) {
	switch format {
	case "json":
		return formatJSON(files)
	case "csv":
		return formatCSV(files, precision)
	case "text", "":
		return formatText(files, precision)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(files []FileResult) (string, error) {
	out := struct {
		Files []FileResult `json:"files"`
	}{Files: files}
	if out.Files == nil {
		out.Files = []FileResult{}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	return string(b), err
}

// formatCSV writes one row per file and confidence. Files without
// confidences get a single row carrying the language or the error.
func formatCSV(files []FileResult, precision int) (string, error) {
	if precision < 0 {
		precision = pipeline.DefaultPrecision
	}

	var output strings.Builder
	w := csv.NewWriter(&output)
	_ = w.Write([]string{"file", "rank", "language", "iso_code", "confidence", "error"})

	for _, f := range files {
		if f.Result == nil || len(f.Result.Confidences) == 0 {
			lang, iso := "", ""
			if f.Result != nil {
				lang, iso = f.Result.Language.String(), f.Result.IsoCode
			}
			_ = w.Write([]string{f.File, "0", lang, iso, "", f.Error})
			continue
		}
		for i, c := range f.Result.Confidences {
			_ = w.Write([]string{
				f.File,
				strconv.Itoa(i + 1),
				c.Language.String(),
				c.Language.IsoCode639_1(),
				strconv.FormatFloat(c.Value, 'f', precision, 64),
				"",
			})
		}
	}

	w.Flush()
	return output.String(), w.Error()
}

func formatText(files []FileResult, precision int) (string, error) {
	var output strings.Builder
	for i, f := range files {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "# %s\n", f.File)
		if f.Result == nil {
			fmt.Fprintf(&output, "error: %s\n", f.Error)
			continue
		}
		text, err := pipeline.ToPlainText(f.Result, precision)
		if err != nil {
			return "", err
		}
		output.WriteString(text)
		output.WriteString("\n")
	}
	return output.String(), nil
}
