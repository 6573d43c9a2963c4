package shop

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Aiuto

## Navigazione

| Tasto | Azione |
|---|---|
| ← ↑ → ↓ / h j k l | sposta la selezione |
| tab | passa tra prodotti, carrello e log |
| invio / a | aggiungi il prodotto selezionato |
| invio / x | nel carrello, rimuovi l'articolo |
| c | pulisci il log |
| r | ricarica tutti i media |
| ? / esc | apri o chiudi questo aiuto |
| q | esci |

## Carrello

Ogni pressione di *aggiungi* inserisce una copia del prodotto. *Rimuovi*
elimina tutte le copie con lo stesso codice prodotto.

## Media

Le immagini e i video sono caricati in background. Un errore viene
mostrato in rosso sotto il media e non blocca il pulsante
**Aggiungi al carrello**.
`

// renderHelp renders the help page for the given width. Rendering failures
// fall back to the raw markdown.
func renderHelp(width int, dark bool) string {
	style := "light"
	if dark {
		style = "dark"
	}
	wrap := 80
	if width > 0 && width-4 < wrap {
		wrap = max(width-4, 20)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
