package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/script"
	"github.com/MeKo-Tech/polyglot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectLanguages(t *testing.T) {
	modelsDir := testutil.FixtureModelsDir(t)

	rows := collectLanguages(modelsDir, []language.Language{language.German})
	require.Len(t, rows, len(language.All()))

	byCode := map[string]languageRow{}
	for _, r := range rows {
		byCode[r.IsoCode] = r
	}

	de := byCode["de"]
	assert.Equal(t, "German", de.Name)
	assert.Equal(t, "deu", de.IsoCode3)
	assert.Equal(t, []script.Script{script.Latin}, de.Scripts)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, de.Models)
	assert.True(t, de.Available)
	assert.True(t, de.Active)

	en := byCode["en"]
	assert.True(t, en.Available)
	assert.False(t, en.Active)

	ko := byCode["ko"]
	assert.Empty(t, ko.Models)
	assert.False(t, ko.Available)
}

func TestCollectLanguages_MissingDir(t *testing.T) {
	rows := collectLanguages(t.TempDir()+"/missing", nil)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.False(t, r.Available, r.Name)
	}
}

func TestLanguagesCommand_Text(t *testing.T) {
	modelsDir := testutil.FixtureModelsDir(t)

	output, err := executeCommand(t, nil, "--models-dir", modelsDir, "languages", "--available")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 1+len(testutil.FixtureLanguages()))
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, output, "English")
	assert.Contains(t, output, "1,2,3,4,5")
	assert.NotContains(t, output, "Korean")
}

func TestLanguagesCommand_JSON(t *testing.T) {
	modelsDir := testutil.FixtureModelsDir(t)

	output, err := executeCommand(t, nil, "--models-dir", modelsDir, "languages", "--format", "json")
	require.NoError(t, err)

	var rows []languageRow
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	assert.Len(t, rows, len(language.All()))

	for _, r := range rows {
		if r.IsoCode == "la" {
			assert.False(t, r.Active, "Latin is not spoken and inactive by default")
		}
	}
}

func TestLanguagesCommand_InvalidFormat(t *testing.T) {
	_, err := executeCommand(t, nil, "languages", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
