// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Id identifies a localized message. The values are stable: they match the
// string table ids of the launcher's Windows resources.
//
//nolint:revive // Id mirrors the resource table naming
type Id int

const (
	AppTitleId           Id = 110
	MissingInterpreterId Id = 111
	MissingScriptId      Id = 112
	SpawnFailedId        Id = 113
	CommandLineTooLongId Id = 114
	PathTooLongId        Id = 115
)

// AllocationFailedMessage is shown when the embedded interpreter cannot be
// created. It is deliberately not localized: the failure happens before any
// catalogue lookup can be trusted.
const AllocationFailedMessage = "Can't allocate interpreter!"

// Supported lists the languages with translations; the first is the fallback.
var Supported = []language.Tag{language.English, language.French, language.German}

type (
	// Issue is one catalogue entry: a message with its remediation hints.
	Issue struct {
		id          Id
		key         string
		suggestions []string
	}

	// Catalog formats localized messages.
	Catalog struct {
		builder *catalog.Builder
		matcher language.Matcher
	}

	translation struct {
		message     string
		suggestions []string
	}
)

var (
	issues = map[Id]*Issue{}

	// translations holds every message per language. %s verbs receive the
	// path or limit the message is about.
	translations = map[language.Tag]map[Id]translation{
		language.English: {
			AppTitleId: {message: "shimrun"},
			MissingInterpreterId: {
				message:     "The interpreter %s could not be found.",
				suggestions: []string{"Reinstall the application.", "Check that the interpreter was not moved or removed."},
			},
			MissingScriptId: {
				message:     "The script %s could not be found.",
				suggestions: []string{"Reinstall the application."},
			},
			SpawnFailedId: {
				message:     "The interpreter %s could not be started.",
				suggestions: []string{"Check that the interpreter is executable.", "Check your antivirus or security software."},
			},
			CommandLineTooLongId: {
				message:     "The command line is too long (limit: %s characters).",
				suggestions: []string{"Pass fewer or shorter arguments."},
			},
			PathTooLongId: {
				message:     "The installation path %s is too long.",
				suggestions: []string{"Install the application in a shorter directory."},
			},
		},
		language.French: {
			AppTitleId: {message: "shimrun"},
			MissingInterpreterId: {
				message:     "L'interpréteur %s est introuvable.",
				suggestions: []string{"Réinstallez l'application.", "Vérifiez que l'interpréteur n'a pas été déplacé ou supprimé."},
			},
			MissingScriptId: {
				message:     "Le script %s est introuvable.",
				suggestions: []string{"Réinstallez l'application."},
			},
			SpawnFailedId: {
				message:     "Impossible de démarrer l'interpréteur %s.",
				suggestions: []string{"Vérifiez que l'interpréteur est exécutable.", "Vérifiez votre antivirus ou logiciel de sécurité."},
			},
			CommandLineTooLongId: {
				message:     "La ligne de commande est trop longue (limite : %s caractères).",
				suggestions: []string{"Passez des arguments moins nombreux ou plus courts."},
			},
			PathTooLongId: {
				message:     "Le chemin d'installation %s est trop long.",
				suggestions: []string{"Installez l'application dans un répertoire plus court."},
			},
		},
		language.German: {
			AppTitleId: {message: "shimrun"},
			MissingInterpreterId: {
				message:     "Der Interpreter %s wurde nicht gefunden.",
				suggestions: []string{"Installieren Sie die Anwendung neu.", "Prüfen Sie, ob der Interpreter verschoben oder gelöscht wurde."},
			},
			MissingScriptId: {
				message:     "Das Skript %s wurde nicht gefunden.",
				suggestions: []string{"Installieren Sie die Anwendung neu."},
			},
			SpawnFailedId: {
				message:     "Der Interpreter %s konnte nicht gestartet werden.",
				suggestions: []string{"Prüfen Sie, ob der Interpreter ausführbar ist.", "Prüfen Sie Ihre Antiviren- oder Sicherheitssoftware."},
			},
			CommandLineTooLongId: {
				message:     "Die Befehlszeile ist zu lang (Grenze: %s Zeichen).",
				suggestions: []string{"Übergeben Sie weniger oder kürzere Argumente."},
			},
			PathTooLongId: {
				message:     "Der Installationspfad %s ist zu lang.",
				suggestions: []string{"Installieren Sie die Anwendung in einem kürzeren Verzeichnis."},
			},
		},
	}

	// headings are the markdown section titles, per language.
	headings = map[language.Tag]string{
		language.English: "Things you can try",
		language.French:  "Pistes de résolution",
		language.German:  "Mögliche Lösungen",
	}
)

func init() {
	for id, tr := range translations[language.English] {
		issues[id] = &Issue{id: id, key: messageKey(id), suggestions: suggestionKeys(id, len(tr.suggestions))}
	}
}

// Id returns the issue id.
func (i *Issue) Id() Id {
	return i.id
}

// Get returns the issue registered for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Ids returns every registered id in ascending order.
func Ids() []Id {
	ids := make([]Id, 0, len(issues))
	for id := range issues {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NewCatalog builds the message catalogue for all supported languages.
func NewCatalog() *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Supported[0]))
	for tag, entries := range translations {
		for _, id := range Ids() {
			tr, ok := entries[id]
			if !ok {
				continue
			}
			// SetString only fails on malformed tags or keys, both of which are constants here.
			_ = b.SetString(tag, messageKey(id), tr.message)
			for n, sug := range tr.suggestions {
				_ = b.SetString(tag, suggestionKey(id, n), sug)
			}
		}
		_ = b.SetString(tag, headingKey, headings[tag])
	}
	return &Catalog{builder: b, matcher: language.NewMatcher(Supported)}
}

// Match returns the supported language closest to tag.
func (c *Catalog) Match(tag language.Tag) language.Tag {
	_, idx, _ := c.matcher.Match(tag)
	return Supported[idx]
}

// Title returns the localized notification title.
func (c *Catalog) Title(tag language.Tag) string {
	return c.printer(tag).Sprintf(messageKey(AppTitleId))
}

// Message formats the message for id in the language closest to tag.
func (c *Catalog) Message(tag language.Tag, id Id, args ...any) string {
	return c.printer(tag).Sprintf(messageKey(id), args...)
}

// Suggestions returns the localized remediation hints for id.
func (c *Catalog) Suggestions(tag language.Tag, id Id) []string {
	i := Get(id)
	if i == nil {
		return nil
	}
	p := c.printer(tag)
	out := make([]string, len(i.suggestions))
	for n, key := range i.suggestions {
		out[n] = p.Sprintf(key)
	}
	return out
}

// Markdown renders the full notification: title heading, message and hints.
func (c *Catalog) Markdown(tag language.Tag, id Id, args ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n", c.Title(tag), c.Message(tag, id, args...))

	if sugs := c.Suggestions(tag, id); len(sugs) > 0 {
		fmt.Fprintf(&b, "\n## %s\n", c.printer(tag).Sprintf(headingKey))
		for _, s := range sugs {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}

func (c *Catalog) printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(c.Match(tag), message.Catalog(c.builder))
}

const headingKey = "shimrun.suggestions"

func messageKey(id Id) string {
	return fmt.Sprintf("shimrun.%d", id)
}

func suggestionKey(id Id, n int) string {
	return fmt.Sprintf("shimrun.%d.hint.%d", id, n)
}

func suggestionKeys(id Id, count int) []string {
	keys := make([]string, count)
	for n := range keys {
		keys[n] = suggestionKey(id, n)
	}
	return keys
}
