package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/pomiya/landing/internal/content"
)

func Problem(s content.Section) g.Node {
	return section("problem", "light",
		heading(s.Title),
		P(Class("band-body"), g.Text(s.Body)),
	)
}

func Solution(s content.Section) g.Node {
	return section("solution", "tint",
		heading(s.Title),
		P(Class("band-body"), g.Text(s.Body)),
		g.If(s.Image != "", Img(Class("band-image"), Src(s.Image), Alt(s.ImageAlt))),
	)
}

func HowItWorks(list content.List) g.Node {
	return section("how-it-works", "light",
		heading(list.Title),
		Div(
			Class("steps"),
			g.Group(g.Map(list.Items, func(item content.Item) g.Node {
				return iconItem(item, "step")
			})),
		),
	)
}

func WhyItWorks(list content.List) g.Node {
	return section("why-it-works", "deep",
		heading(list.Title),
		Div(
			Class("values"),
			g.Group(g.Map(list.Items, func(item content.Item) g.Node {
				return iconItem(item, "value")
			})),
		),
	)
}
