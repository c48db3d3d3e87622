package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type PageConfig struct {
	Title       string
	Description string
	OGImage     string
	// Absolute site URL for the canonical link, optional
	BaseURL string
}

func Layout(config PageConfig, content ...g.Node) g.Node {
	if config.OGImage == "" {
		config.OGImage = "/static/images/level1.svg"
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(config.Title)),
				Meta(Name("description"), Content(config.Description)),

				Meta(g.Attr("property", "og:title"), Content(config.Title)),
				Meta(g.Attr("property", "og:description"), Content(config.Description)),
				Meta(g.Attr("property", "og:type"), Content("website")),
				Meta(g.Attr("property", "og:image"), Content(config.OGImage)),
				g.If(config.BaseURL != "", Link(Rel("canonical"), Href(config.BaseURL))),

				Link(Rel("icon"), Type("image/svg+xml"), Href("/static/images/favicon.svg")),
				Link(Rel("stylesheet"), Href("/static/styles.css")),
			),
			Body(
				Class("page"),
				g.Group(content),
			),
		),
	})
}
