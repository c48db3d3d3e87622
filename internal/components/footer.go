package components

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func PageFooter(brand, note string, year int) g.Node {
	return Footer(
		Class("footer"),
		Div(
			Class("container footer-row"),
			Logo(brand),
			P(g.Text(fmt.Sprintf("© %d %s. %s", year, brand, note))),
		),
	)
}
