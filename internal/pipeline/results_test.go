package pipeline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MeKo-Tech/polyglot/internal/detector"
	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *TextResult {
	res := &TextResult{
		Language:   language.German,
		IsoCode:    "de",
		Characters: 21,
		Confidences: []detector.Confidence{
			{Language: language.German, Value: 1},
			{Language: language.English, Value: 0.8771},
		},
	}
	res.Processing.TotalNs = 1500
	return res
}

func TestToJSONText(t *testing.T) {
	s, err := ToJSONText(sampleResult())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	assert.Equal(t, "German", raw["language"])
	assert.Equal(t, "de", raw["iso_code"])

	confidences := raw["confidences"].([]interface{})
	require.Len(t, confidences, 2)
	assert.Equal(t, "English", confidences[1].(map[string]interface{})["language"])

	var back TextResult
	require.NoError(t, json.Unmarshal([]byte(s), &back))
	assert.Equal(t, *sampleResult(), back)

	_, err = ToJSONText(nil)
	assert.Error(t, err)
}

func TestToJSONTexts(t *testing.T) {
	s, err := ToJSONTexts([]*TextResult{sampleResult(), nil})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "["))
	assert.Contains(t, s, "null")
}

func TestToPlainText(t *testing.T) {
	txt, err := ToPlainText(sampleResult(), 2)
	require.NoError(t, err)
	assert.Equal(t, "German 1.00\nEnglish 0.88", txt)

	txt, err = ToPlainText(sampleResult(), -1)
	require.NoError(t, err)
	assert.Contains(t, txt, "English 0.88")

	txt, err = ToPlainText(&TextResult{Language: language.Unknown}, 2)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", txt)

	_, err = ToPlainText(nil, 2)
	assert.Error(t, err)
}

func TestToCSVText(t *testing.T) {
	csv, err := ToCSVText(sampleResult(), 3)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,language,iso_code,confidence", lines[0])
	assert.Equal(t, "1,German,de,1.000", lines[1])
	assert.Equal(t, "2,English,en,0.877", lines[2])

	_, err = ToCSVText(nil, 2)
	assert.Error(t, err)
}

func TestValidateTextResult(t *testing.T) {
	require.NoError(t, ValidateTextResult(sampleResult()))
	require.NoError(t, ValidateTextResult(&TextResult{Language: language.Unknown}))

	tests := []struct {
		name   string
		mutate func(*TextResult)
		errMsg string
	}{
		{"negative characters", func(r *TextResult) { r.Characters = -1 }, "negative character count"},
		{"wrong leader", func(r *TextResult) { r.Language = language.English }, "does not lead"},
		{"out of range", func(r *TextResult) { r.Confidences[1].Value = 0 }, "out of range"},
		{"out of order", func(r *TextResult) {
			r.Confidences = append(r.Confidences, detector.Confidence{Language: language.French, Value: 0.9})
		}, "out of order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sampleResult()
			tt.mutate(res)
			assert.ErrorContains(t, ValidateTextResult(res), tt.errMsg)
		})
	}

	assert.Error(t, ValidateTextResult(nil))
}
