package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/pomiya/landing/internal/content"
)

// WaitlistView is the render state of the signup block
type WaitlistView struct {
	// Confirmed replaces the form with the acknowledgment
	Confirmed  bool
	PageViewID string
	// Email is echoed back into the field after a failed attempt
	Email          string
	Notice         string
	NoticeIsError  bool
	Acknowledgment string
}

// WaitlistCTA renders the call to action with either the signup form or,
// once confirmed, the acknowledgment and no submit control.
func WaitlistCTA(cta content.CTA, view WaitlistView) g.Node {
	return section("waitlist", "light",
		heading(cta.Title),
		P(Class("band-body"), g.Text(cta.Body)),
		g.If(view.Confirmed, confirmation(view.Acknowledgment)),
		g.If(!view.Confirmed, signupForm(cta, view)),
	)
}

func confirmation(message string) g.Node {
	return Div(
		ID("waitlist-confirmed"),
		Class("confirmation"),
		g.Attr("role", "status"),
		g.Text(message),
	)
}

func signupForm(cta content.CTA, view WaitlistView) g.Node {
	return g.Group([]g.Node{
		g.If(view.Notice != "", notice(view.Notice, view.NoticeIsError)),
		Form(
			ID("waitlist-form"),
			Class("signup"),
			g.Attr("method", "post"),
			g.Attr("action", "/waitlist"),
			g.Attr("novalidate"),
			Input(Type("hidden"), Name("page_view_id"), Value(view.PageViewID)),
			Label(Class("sr-only"), g.Attr("for", "waitlist-email"), g.Text("Email")),
			Input(
				ID("waitlist-email"),
				Class("signup-input"),
				Type("email"),
				Name("email"),
				Value(view.Email),
				Placeholder(cta.Placeholder),
				g.Attr("autocomplete", "email"),
				g.Attr("required"),
			),
			Button(Class("btn btn-primary"), Type("submit"), g.Text(cta.Button)),
		),
	})
}

func notice(message string, isError bool) g.Node {
	class := "notice notice-success"
	role := "status"
	if isError {
		class = "notice notice-error"
		role = "alert"
	}
	return Div(Class(class), g.Attr("role", role), g.Text(message))
}
