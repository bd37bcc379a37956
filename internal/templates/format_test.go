package templates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-order-service/internal/models"
)

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocaleEnglish, ParseLocale("en"))
	assert.Equal(t, LocaleEnglish, ParseLocale(" EN-gb "))
	assert.Equal(t, LocaleDanish, ParseLocale("da"))
	assert.Equal(t, LocaleDanish, ParseLocale(""))
	assert.Equal(t, LocaleDanish, ParseLocale("de"))
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		key    string
		locale Locale
		want   string
	}{
		{"firstName", LocaleDanish, "Fornavn"},
		{"firstName", LocaleEnglish, "First Name"},
		{"Skolenavn", LocaleEnglish, "School Name"},
		{"SatinType", LocaleDanish, "Satin Type"},
		{"Ekstra korkarde Text", LocaleEnglish, "Ekstra korkarde tekst"},
		{"Size", LocaleEnglish, "Size"},
		{"ukendt felt", LocaleDanish, "ukendt felt"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+string(tt.locale), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLabel(tt.key, tt.locale))
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		value  models.OptionValue
		locale Locale
		want   string
	}{
		{"named", models.NamedValue("Guld", models.Field("hex", models.ScalarValue("#FFD700"))), LocaleDanish, "Guld"},
		{"nested value", models.NestedValue(models.Field("value", models.ScalarValue("58"))), LocaleEnglish, "58"},
		{"nested numeric value", models.NestedValue(models.Field("value", models.NumberValue("58"))), LocaleEnglish, "58"},
		{"nested without value", models.NestedValue(models.Field("a", models.NumberValue("1"))), LocaleEnglish, `{"a":1}`},
		{"nested with absent value", models.NestedValue(models.Field("value", models.ScalarValue("")), models.Field("b", models.FlagValue(true))), LocaleEnglish, `{"value":"","b":true}`},
		{"true da", models.FlagValue(true), LocaleDanish, "Ja"},
		{"true en", models.FlagValue(true), LocaleEnglish, "Yes"},
		{"false da", models.FlagValue(false), LocaleDanish, "Nej"},
		{"null en", models.EmptyValue(), LocaleEnglish, "Not specified"},
		{"empty string da", models.ScalarValue(""), LocaleDanish, "Ikke angivet"},
		{"No da", models.ScalarValue("No"), LocaleDanish, "Nej"},
		{"Yes da", models.ScalarValue("Yes"), LocaleDanish, "Ja"},
		{"Standard en", models.ScalarValue("Standard"), LocaleEnglish, "Standard"},
		{"NONE da", models.ScalarValue("NONE"), LocaleDanish, "INGEN"},
		{"INGEN en", models.ScalarValue("INGEN"), LocaleEnglish, "NONE"},
		{"plain", models.ScalarValue("Hvid"), LocaleEnglish, "Hvid"},
		{"number", models.NumberValue("2026"), LocaleDanish, "2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, tt.locale))
		})
	}
}

func TestBuildSections_SuppressesAbsent(t *testing.T) {
	opts := models.SelectedOptions{Categories: []models.OptionCategory{
		{Key: "KOKARDE", Options: []models.OptionField{
			models.Field("Roset farve", models.NamedValue("Rød")),
			models.Field("Emblem", models.ScalarValue("")),
			models.Field("Kokarde", models.FlagValue(false)),
		}},
		{Key: "TILBEHØR", Options: []models.OptionField{
			models.Field("Hueæske", models.FlagValue(false)),
			models.Field("Handsker", models.EmptyValue()),
			models.Field("Fløjte", models.NumberValue("0")),
		}},
		{Key: "BRODERI", Options: []models.OptionField{
			models.Field("år", models.NumberValue("2026")),
			models.Field("Broderifarve", models.NestedValue(models.Field("value", models.ScalarValue("Guld")))),
		}},
	}}

	sections := BuildSections(opts, LocaleDanish)

	assert.Equal(t, []Section{
		{Key: "KOKARDE", Title: "KOKARDE", Rows: []Row{{Label: "Roset farve", Value: "Rød"}}},
		{Key: "BRODERI", Title: "BRODERI", Rows: []Row{
			{Label: "år", Value: "2026"},
			{Label: "value", Value: "Guld"},
		}},
	}, sections)
}

func TestBuildSections_OptionShapes(t *testing.T) {
	tests := []struct {
		name    string
		options string
		locale  Locale
		want    []Row
	}{
		{
			name:    "nested option expands present sub-fields in order",
			options: `{"BRODERI":{"Broderifarve":{"color":"Guld","thread":"Silke","price":0}}}`,
			locale:  LocaleDanish,
			want:    []Row{{Label: "color", Value: "Guld"}, {Label: "thread", Value: "Silke"}},
		},
		{
			name:    "nested sub-field uses label and value formatting",
			options: `{"BRODERI":{"Broderi":{"Broderifarve":"NONE","Emblem":true}}}`,
			locale:  LocaleDanish,
			want:    []Row{{Label: "Broderifarve", Value: "INGEN"}, {Label: "Emblem", Value: "Ja"}},
		},
		{
			name:    "named No in danish",
			options: `{"KOKARDE":{"Emblem":{"name":"No"}}}`,
			locale:  LocaleDanish,
			want:    []Row{{Label: "Emblem", Value: "Nej"}},
		},
		{
			name:    "named No in english",
			options: `{"KOKARDE":{"Emblem":{"name":"No"}}}`,
			locale:  LocaleEnglish,
			want:    []Row{{Label: "Emblem", Value: "No"}},
		},
		{
			name:    "named INGEN in english",
			options: `{"KOKARDE":{"Emblem":{"name":"INGEN"}}}`,
			locale:  LocaleEnglish,
			want:    []Row{{Label: "Emblem", Value: "NONE"}},
		},
		{
			name:    "named plain name unchanged",
			options: `{"KOKARDE":{"Roset farve":{"name":"Rød","hex":"#ff0000"}}}`,
			locale:  LocaleDanish,
			want:    []Row{{Label: "Roset farve", Value: "Rød"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts models.SelectedOptions
			require.NoError(t, json.Unmarshal([]byte(tt.options), &opts))

			sections := BuildSections(opts, tt.locale)
			require.Len(t, sections, 1)
			assert.Equal(t, tt.want, sections[0].Rows)
		})
	}
}

func TestBuildSections_Empty(t *testing.T) {
	assert.Empty(t, BuildSections(models.SelectedOptions{}, LocaleEnglish))
}

func TestBuildSections_ObjectOfAbsentValuesDropsCategory(t *testing.T) {
	var opts models.SelectedOptions
	require.NoError(t, json.Unmarshal([]byte(`{
		"TILBEHØR": {"Hueæske": {"a": false, "b": ""}},
		"KOKARDE": {"Roset farve": {"name": "Rød"}}
	}`), &opts))

	sections := BuildSections(opts, LocaleDanish)

	require.Len(t, sections, 1)
	assert.Equal(t, "KOKARDE", sections[0].Key)
}
