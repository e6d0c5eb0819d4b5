package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/script"
	"github.com/spf13/cobra"
)

// languagesCmd represents the languages command.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and installed models",
	Long: `List every supported language with its ISO codes, scripts and the n-gram
model orders found in the models directory. Languages selected in the
configuration are marked as active.

Examples:
  polyglot languages
  polyglot languages --available
  polyglot languages --format json`,
	SilenceUsage: true,
	RunE:         runLanguagesCommand,
}

// languageRow is one line of the languages listing.
type languageRow struct {
	Name      string          `json:"name"`
	IsoCode   string          `json:"iso_code"`
	IsoCode3  string          `json:"iso_code_639_3"`
	Scripts   []script.Script `json:"scripts"`
	Models    []int           `json:"model_orders"`
	Available bool            `json:"models_available"`
	Active    bool            `json:"active"`
}

// collectLanguages builds the listing for all languages. A missing models
// directory is not an error; every language is then reported without models.
func collectLanguages(modelsDir string, active []language.Language) []languageRow {
	orders := map[string][]int{}
	if infos, err := models.ListAvailableModels(modelsDir); err == nil {
		for _, info := range infos {
			orders[info.IsoCode] = info.Orders
		}
	}

	rows := make([]languageRow, 0, len(language.All()))
	for _, l := range language.All() {
		iso := l.IsoCode639_1()
		info := models.ModelInfo{IsoCode: iso, Orders: orders[iso]}
		rows = append(rows, languageRow{
			Name:      l.String(),
			IsoCode:   iso,
			IsoCode3:  l.IsoCode639_3(),
			Scripts:   l.Scripts(),
			Models:    info.Orders,
			Available: info.Complete(),
			Active:    slices.Contains(active, l),
		})
	}
	return rows
}

func writeLanguageTable(w io.Writer, rows []languageRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tISO 639-1\tISO 639-3\tSCRIPTS\tMODELS\tACTIVE")
	for _, r := range rows {
		scripts := make([]string, len(r.Scripts))
		for i, s := range r.Scripts {
			scripts[i] = s.String()
		}
		modelOrders := "-"
		if len(r.Models) > 0 {
			orders := make([]string, len(r.Models))
			for i, o := range r.Models {
				orders[i] = strconv.Itoa(o)
			}
			modelOrders = strings.Join(orders, ",")
		}
		active := ""
		if r.Active {
			active = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.IsoCode, r.IsoCode3, strings.Join(scripts, ","), modelOrders, active)
	}
	return tw.Flush()
}

func runLanguagesCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	active, err := cfg.ParsedLanguages()
	if err != nil {
		return err
	}
	if len(active) == 0 {
		active = language.Spoken()
	}

	rows := collectLanguages(cfg.ModelsDir, active)

	if onlyAvailable, _ := cmd.Flags().GetBool("available"); onlyAvailable {
		rows = slices.DeleteFunc(rows, func(r languageRow) bool { return !r.Available })
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "text":
		return writeLanguageTable(cmd.OutOrStdout(), rows)
	default:
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().StringP("format", "f", "text", "output format: text, json")
	languagesCmd.Flags().Bool("available", false, "only list languages with a complete set of models")
}
