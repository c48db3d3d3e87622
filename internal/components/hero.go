package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/pomiya/landing/internal/content"
)

func Hero(brand string, hero content.Hero) g.Node {
	return Section(
		ID("hero"),
		Class("hero"),
		H1(
			Class("hero-title"),
			g.Text(hero.Lead+" "),
			Span(Class("brand"), g.Text(brand)),
			g.If(hero.BrandSuffix != "", g.Text(" "+hero.BrandSuffix)),
		),
		P(Class("hero-tagline"), g.Text(hero.Tagline)),
		g.If(hero.Image != "",
			Img(Class("hero-image"), Src(hero.Image), Alt(hero.ImageAlt)),
		),
		A(Class("btn btn-primary"), Href("#waitlist"), g.Text("Join the waitlist")),
	)
}
