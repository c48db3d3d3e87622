package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/pomiya/landing/internal/content"
)

func Logo(brand string) g.Node {
	return Span(Class("logo"), g.Text(brand))
}

// section wraps one band of the page; tone picks the background
func section(id, tone string, children ...g.Node) g.Node {
	return Section(
		g.If(id != "", ID(id)),
		Class("band band-"+tone),
		Div(Class("container"), g.Group(children)),
	)
}

func heading(text string) g.Node {
	return H2(Class("band-title"), g.Text(text))
}

func iconItem(item content.Item, class string) g.Node {
	return Div(
		Class(class),
		Div(Class("item-icon"), g.Attr("aria-hidden", "true"), g.Text(item.Icon)),
		P(Class("item-text"), g.Text(item.Text)),
	)
}
