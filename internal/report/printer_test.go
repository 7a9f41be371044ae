package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resx-hooks/internal/check"
	"resx-hooks/internal/config"
	"resx-hooks/internal/report"
)

func failingResult() *check.Result {
	return &check.Result{
		Files: []string{"en.resx", "fr.resx"},
		Outcomes: []check.Outcome{
			{
				Check:       check.KeysConsistency,
				MissingKeys: check.MissingKeyReport{{File: "fr.resx", Keys: []string{"Goodbye", "Welcome"}}},
			},
			{
				Check:       check.EmptyValues,
				EmptyValues: check.EmptyValueReport{{File: "en.resx", Keys: []string{"Error"}}},
			},
			{
				Check: check.Placeholders,
				Placeholders: check.PlaceholderMismatchReport{{
					File: "fr.resx",
					Mismatches: []check.PlaceholderMismatch{
						{Key: "Error", Expected: []string{"0", "1"}, Found: []string{"1"}},
					},
				}},
				Warnings: []string{check.IncompleteCoverageWarning},
			},
		},
	}
}

func TestPrinter_TextAllChecks(t *testing.T) {
	t.Parallel()

	var out, logs bytes.Buffer
	p := report.NewPrinter(&out, zerolog.New(&logs), config.FormatText, false)
	require.NoError(t, p.Print(failingResult()))

	want := `Running all resource checks...

Checking keys consistency...
File fr.resx is missing keys: Goodbye, Welcome
Keys consistency check failed.

Checking for empty values...
File en.resx has empty values for keys: Error
Empty values check failed.

Checking placeholders...
Inconsistent placeholders in fr.resx:
  Key 'Error':
    Expected: [0, 1]
    Found: [1]
Placeholders check failed.
`
	assert.Equal(t, want, out.String())
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "inconsistent keys")
}

func TestPrinter_TextPassing(t *testing.T) {
	t.Parallel()

	res := &check.Result{
		Files: []string{"en.resx"},
		Outcomes: []check.Outcome{
			{Check: check.KeysConsistency},
			{Check: check.EmptyValues},
			{Check: check.Placeholders},
		},
	}

	var out bytes.Buffer
	p := report.NewPrinter(&out, zerolog.Nop(), config.FormatText, false)
	require.NoError(t, p.Print(res))

	want := `Running all resource checks...

Checking keys consistency...

Checking for empty values...

Checking placeholders...

All checks passed successfully!
`
	assert.Equal(t, want, out.String())
}

func TestPrinter_TextSingleCheck(t *testing.T) {
	t.Parallel()

	res := &check.Result{
		Outcomes: []check.Outcome{{
			Check:       check.EmptyValues,
			EmptyValues: check.EmptyValueReport{{File: "a.resx", Keys: []string{"A", "B"}}},
		}},
	}

	var out bytes.Buffer
	p := report.NewPrinter(&out, zerolog.Nop(), config.FormatText, false)
	require.NoError(t, p.Print(res))
	assert.Equal(t, "File a.resx has empty values for keys: A, B\n", out.String())
}

func TestPrinter_EmptyPlaceholderLists(t *testing.T) {
	t.Parallel()

	res := &check.Result{
		Outcomes: []check.Outcome{{
			Check: check.Placeholders,
			Placeholders: check.PlaceholderMismatchReport{{
				File:       "fr.resx",
				Mismatches: []check.PlaceholderMismatch{{Key: "K", Expected: []string{}, Found: []string{"s"}}},
			}},
		}},
	}

	var out bytes.Buffer
	p := report.NewPrinter(&out, zerolog.Nop(), config.FormatText, false)
	require.NoError(t, p.Print(res))
	assert.Contains(t, out.String(), "    Expected: []\n    Found: [s]\n")
}

func TestPrinter_JSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := report.NewPrinter(&out, zerolog.Nop(), config.FormatJSON, true)
	require.NoError(t, p.Print(failingResult()))

	var doc struct {
		Failed   bool     `json:"failed"`
		Files    []string `json:"files"`
		Outcomes []struct {
			Check        string `json:"check"`
			MissingKeys  []struct {
				File string
				Keys []string
			} `json:"missing_keys"`
			Placeholders []struct {
				File       string
				Mismatches []struct {
					Key      string
					Expected []string
					Found    []string
				}
			} `json:"placeholders"`
			Warnings []string `json:"warnings"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))

	assert.True(t, doc.Failed)
	assert.Equal(t, []string{"en.resx", "fr.resx"}, doc.Files)
	require.Len(t, doc.Outcomes, 3)
	assert.Equal(t, "keys-consistency", doc.Outcomes[0].Check)
	assert.Equal(t, []string{"Goodbye", "Welcome"}, doc.Outcomes[0].MissingKeys[0].Keys)
	assert.Equal(t, []string{"0", "1"}, doc.Outcomes[2].Placeholders[0].Mismatches[0].Expected)
	assert.Len(t, doc.Outcomes[2].Warnings, 1)
	assert.NotContains(t, out.String(), "\x1b[", "JSON output is never coloured")
}

func TestPrinter_NoFiles(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, report.NewPrinter(&out, zerolog.Nop(), config.FormatText, false).NoFiles())
	assert.Equal(t, "No resource files found to parse.\n", out.String())

	out.Reset()
	require.NoError(t, report.NewPrinter(&out, zerolog.Nop(), config.FormatJSON, false).NoFiles())
	assert.Contains(t, out.String(), `"failed": false`)
}

func TestPrinter_Color(t *testing.T) {
	t.Parallel()

	res := &check.Result{
		Outcomes: []check.Outcome{{
			Check:       check.KeysConsistency,
			MissingKeys: check.MissingKeyReport{{File: "fr.resx", Keys: []string{"A"}}},
		}},
	}

	var out bytes.Buffer
	require.NoError(t, report.NewPrinter(&out, zerolog.Nop(), config.FormatText, true).Print(res))
	assert.Contains(t, out.String(), "\x1b[")
}
