package templates

import (
	"strings"

	"cap-order-service/internal/models"
)

// Locale selects the language of rendered emails
type Locale string

const (
	LocaleDanish  Locale = "da"
	LocaleEnglish Locale = "en"
)

// ParseLocale maps a config value to a supported locale, defaulting to Danish.
func ParseLocale(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "en-us", "en-gb", "english":
		return LocaleEnglish
	default:
		return LocaleDanish
	}
}

// Audience selects who an order email is written for
type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceAdmin    Audience = "admin"
)

type label struct {
	da string
	en string
}

func same(s string) label { return label{da: s, en: s} }

// optionLabels maps storefront field and option keys to display labels.
var optionLabels = map[string]label{
	"firstName":       {da: "Fornavn", en: "First Name"},
	"lastName":        {da: "Efternavn", en: "Last Name"},
	"email":           {da: "E-mail", en: "Email"},
	"phone":           {da: "Telefon", en: "Phone"},
	"Skolenavn":       {da: "Skolenavn", en: "School Name"},
	"schoolName":      {da: "Skolenavn", en: "School Name"},
	"address":         {da: "Adresse", en: "Address"},
	"city":            {da: "By", en: "City"},
	"postalCode":      {da: "Postnummer", en: "Postal Code"},
	"country":         {da: "Land", en: "Country"},
	"notes":           {da: "Bemærkninger", en: "Notes"},
	"deliverToSchool": {da: "Leveres til skole", en: "Deliver to School"},

	"KOKARDE":              same("KOKARDE"),
	"Roset farve":          same("Roset farve"),
	"Kokarde":              same("Kokarde"),
	"Emblem":               same("Emblem"),
	"Type":                 same("Type"),
	"TILBEHØR":             same("TILBEHØR"),
	"Hueæske":              same("Hueæske"),
	"Premium æske":         same("Premium æske"),
	"Huekuglepen":          same("Huekuglepen"),
	"Silkepude":            same("Silkepude"),
	"Ekstra korkarde":      same("Ekstra korkarde"),
	"Ekstra korkarde Text": same("Ekstra korkarde tekst"),
	"Handsker":             same("Handsker"),
	"Stor kuglepen":        same("Stor kuglepen"),
	"Store kuglepen":       same("Store kuglepen"),
	"Smart Tag":            same("Smart Tag"),
	"Lyskugle":             same("Lyskugle"),
	"Luksus champagneglas": same("Luksus champagneglas"),
	"Fløjte":               same("Fløjte"),
	"Trompet":              same("Trompet"),
	"Bucketpins":           same("Bucketpins"),

	"STØRRELSE":                 same("STØRRELSE"),
	"Vælg størrelse":            same("Vælg størrelse"),
	"Millimeter tilpasningssæt": same("Millimeter tilpasningssæt"),

	"UDDANNELSESBÅND":    same("UDDANNELSESBÅND"),
	"Huebånd":            same("Huebånd"),
	"Materiale":          same("Materiale"),
	"Hagerem":            same("Hagerem"),
	"Hagerem Materiale":  same("Hagerem Materiale"),
	"Broderi farve":      same("Broderi farve"),
	"Knap farve":         same("Knap farve"),
	"år":                 same("år"),
	"BRODERI":            same("BRODERI"),
	"Broderifarve":       same("Broderifarve"),
	"Skolebroderi farve": same("Skolebroderi farve"),
	"Ingen":              same("Ingen"),

	"BETRÆK":     same("BETRÆK"),
	"Farve":      same("Farve"),
	"Topkant":    same("Topkant"),
	"Kantbånd":   same("Kantbånd"),
	"Stjerner":   same("Stjerner"),
	"SKYGGE":     same("SKYGGE"),
	"Skyggebånd": same("Skyggebånd"),

	"FOER":         same("FOER"),
	"Svederem":     same("Svederem"),
	"Sløjfe":       same("Sløjfe"),
	"Foer":         same("Foer"),
	"SatinType":    same("Satin Type"),
	"SilkeType":    same("Silke Type"),
	"EKSTRABETRÆK": same("EKSTRABETRÆK"),
	"Tilvælg":      same("Tilvælg"),
}

// FormatLabel returns the display label for a key, or the key itself when unknown.
func FormatLabel(key string, locale Locale) string {
	l, ok := optionLabels[key]
	if !ok {
		return key
	}
	if locale == LocaleEnglish {
		return l.en
	}
	return l.da
}

type valueTokens struct {
	yes          string
	no           string
	notSpecified string
	standard     string
	none         string
}

var tokensByLocale = map[Locale]valueTokens{
	LocaleDanish: {
		yes:          "Ja",
		no:           "Nej",
		notSpecified: "Ikke angivet",
		standard:     "Standard",
		none:         "INGEN",
	},
	LocaleEnglish: {
		yes:          "Yes",
		no:           "No",
		notSpecified: "Not specified",
		standard:     "Standard",
		none:         "NONE",
	},
}

func tokensFor(locale Locale) valueTokens {
	if t, ok := tokensByLocale[locale]; ok {
		return t
	}
	return tokensByLocale[LocaleDanish]
}

// FormatValue returns the display string for an option value. It never fails:
// shapes it does not understand fall back to their JSON form.
func FormatValue(v models.OptionValue, locale Locale) string {
	tokens := tokensFor(locale)

	switch v.Kind() {
	case models.KindNamed:
		return v.Text()
	case models.KindNested:
		if inner, ok := v.Lookup("value"); ok && inner.IsPresent() {
			return inner.String()
		}
		return v.String()
	case models.KindFlag:
		if v.Bool() {
			return tokens.yes
		}
		return tokens.no
	case models.KindEmpty:
		return tokens.notSpecified
	}

	switch v.Text() {
	case "":
		return tokens.notSpecified
	case "No":
		return tokens.no
	case "Yes":
		return tokens.yes
	case "Standard":
		return tokens.standard
	case "NONE", "INGEN":
		return tokens.none
	default:
		return v.Text()
	}
}
