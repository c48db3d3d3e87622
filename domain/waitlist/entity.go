package waitlist

import (
	"github.com/google/uuid"
)

// SubmissionState records whether a page view has completed a signup.
// It only ever moves from NotSubmitted to Submitted.
type SubmissionState int

const (
	NotSubmitted SubmissionState = iota
	Submitted
)

func (s SubmissionState) String() string {
	switch s {
	case Submitted:
		return "submitted"
	default:
		return "not_submitted"
	}
}

// PageView is the state owned by a single rendering of the landing page.
// Email is what the visitor typed, kept verbatim until a signup succeeds.
type PageView struct {
	ID    uuid.UUID
	Email string
	State SubmissionState
}

// NewPageView starts a page view in the FormVisible state with an empty field.
func NewPageView() *PageView {
	return &PageView{ID: uuid.New(), State: NotSubmitted}
}

// RestorePageView rebuilds a page view from the id carried by a form post.
// An id that does not parse gets a fresh one.
func RestorePageView(id string) *PageView {
	parsed, err := uuid.Parse(id)
	if err != nil {
		parsed = uuid.New()
	}
	return &PageView{ID: parsed, State: NotSubmitted}
}

// Confirmed reports whether the page should show the acknowledgment
// instead of the form.
func (p *PageView) Confirmed() bool {
	return p.State == Submitted
}

// Signup is the payload sent to the subscription endpoint. Source and
// Campaign come from configuration and never from the visitor.
type Signup struct {
	Email      string
	Source     string
	Campaign   string
	PageViewID uuid.UUID
}

// NotificationKind selects how a notification is styled
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is the transient message shown to the visitor after a submit
type Notification struct {
	Kind    NotificationKind
	Message string
}

// IsZero reports whether there is nothing to show
func (n Notification) IsZero() bool {
	return n.Message == ""
}

// Messages shown to the visitor
const (
	MessageConfirmed = "🎉 Thank you for joining!"
	// Prefix for rejections that carry a reason from the endpoint
	rejectionPrefix = "Signup failed: "
)

// Options holds the static provenance tags attached to every signup
type Options struct {
	SourceTag   string
	CampaignTag string
}
