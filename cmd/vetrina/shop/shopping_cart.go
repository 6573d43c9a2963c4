package shop

import (
	"fmt"

	"github.com/AlessioCavassi/Sito-mio-instagram/cmd/vetrina/ui"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/cart"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"

	"github.com/charmbracelet/lipgloss"
)

const emptyCartText = "Il carrello è vuoto"

// ShoppingCart is a read-only view over the cart plus a remove callback.
type ShoppingCart struct {
	Items    []cart.Item
	Lines    []cart.Line
	Total    string
	Currency string
	OnRemove func(cart.Item)
}

// NewShoppingCart snapshots c for rendering.
func NewShoppingCart(c *cart.Cart, currency string, onRemove func(cart.Item)) ShoppingCart {
	return ShoppingCart{
		Items:    c.Items(),
		Lines:    c.Lines(),
		Total:    c.FormattedTotal(currency),
		Currency: currency,
		OnRemove: onRemove,
	}
}

// Remove invokes the remove callback with the item at i.
func (sc ShoppingCart) Remove(i int) bool {
	if i < 0 || i >= len(sc.Items) || sc.OnRemove == nil {
		return false
	}
	sc.OnRemove(sc.Items[i])
	return true
}

// View renders the cart panel. cursor is the focused row, or -1.
func (sc ShoppingCart) View(s ui.Styles, width int, cursor int, focused bool) string {
	inner := max(width-4, 10)

	rows := []string{ui.CardTitle(s, ui.Attrs{Classes: []string{"mb-4"}}, "Carrello")}

	if len(sc.Items) == 0 {
		rows = append(rows, s.Muted.Render(emptyCartText))
	} else {
		for i, item := range sc.Items {
			rows = append(rows, sc.row(s, inner, item, focused && i == cursor))
		}
		distinct := len(sc.Lines)
		rows = append(rows, "", s.Muted.Render(fmt.Sprintf("%d articoli, %d prodotti diversi", len(sc.Items), distinct)))
	}

	rows = append(rows,
		s.RenderDivider(inner),
		s.Price.Render(fmt.Sprintf("Totale: %s", sc.Total)),
	)

	return ui.Card(s, focused, ui.Attrs{Width: width},
		ui.CardContent(s, ui.Attrs{}, rows...),
	)
}

func (sc ShoppingCart) row(s ui.Styles, width int, item cart.Item, focused bool) string {
	button := ui.Button(s, "Rimuovi", ui.ButtonOpts{Variant: ui.ButtonDestructive, Focused: focused})
	price := catalog.FormatPrice(sc.Currency, item.Price)

	nameWidth := max(width-lipgloss.Width(button)-lipgloss.Width(price)-2, 4)
	name := s.Body.Width(nameWidth).Render(truncate(item.Name, nameWidth))

	return lipgloss.JoinHorizontal(lipgloss.Center, name, " ", price, " ", button)
}
