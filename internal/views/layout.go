package views

import "mobil_market/internal/session"

// Layout is the bottom tab bar
type Layout struct {
	sess *session.Session
}

func NewLayout(sess *session.Session) *Layout {
	return &Layout{sess: sess}
}

// Tabs visible to the current user; admin only for admins
func (l *Layout) Tabs() []session.Tab { return l.sess.Tabs() }

// Active tab
func (l *Layout) Active() session.Tab { return l.sess.Tab() }

// Select switches tab
func (l *Layout) Select(t session.Tab) error { return l.sess.SetTab(t) }

// CartBadge is the number shown on the cart tab, 0 hides it
func (l *Layout) CartBadge() int { return l.sess.CartCount() }
