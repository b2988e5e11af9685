// Package identity wraps the external sign-in widget and the decoding of the
// identity tokens it posts back.
package identity

import (
	"context"
	"errors"
	"sync"
)

// CredentialCallback receives the raw identity token issued by the widget.
type CredentialCallback func(ctx context.Context, credential string) error

// ButtonOptions controls how the sign-in button is drawn.
type ButtonOptions struct {
	Theme string // outline, filled_blue, filled_black
	Size  string // large, medium, small
}

// DefaultButtonOptions is the outline, large sign-in button.
var DefaultButtonOptions = ButtonOptions{Theme: "outline", Size: "large"}

// IdentityProvider is the capability the orchestrator needs from the sign-in widget.
type IdentityProvider interface {
	Initialize(clientID string, callback CredentialCallback)
	RenderButton(anchor string, opts ButtonOptions)
	Prompt()
	DisableAutoSelect()
}

// ErrNotInitialized is returned when a credential arrives before Initialize registered a callback.
var ErrNotInitialized = errors.New("identity widget not initialized")

// Widget is the render model for the Google Identity Services markup.
type Widget struct {
	ClientID   string
	LoginURI   string
	Anchor     string
	Button     ButtonOptions
	Rendered   bool
	Prompt     bool
	AutoSelect bool
}

// GoogleIdentity records widget state for the page template. The browser-side library
// posts the credential to LoginURI, and the handler hands it back through Deliver.
type GoogleIdentity struct {
	mu       sync.Mutex
	loginURI string
	widget   Widget
	callback CredentialCallback
}

var _ IdentityProvider = (*GoogleIdentity)(nil)

func NewGoogleIdentity(loginURI string) *GoogleIdentity {
	return &GoogleIdentity{
		loginURI: loginURI,
		widget:   Widget{LoginURI: loginURI, AutoSelect: true},
	}
}

func (g *GoogleIdentity) Initialize(clientID string, callback CredentialCallback) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.widget.ClientID = clientID
	g.callback = callback
}

func (g *GoogleIdentity) RenderButton(anchor string, opts ButtonOptions) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.widget.Anchor = anchor
	g.widget.Button = opts
	g.widget.Rendered = true
}

func (g *GoogleIdentity) Prompt() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.widget.Prompt = true
}

func (g *GoogleIdentity) DisableAutoSelect() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.widget.AutoSelect = false
	g.widget.Rendered = false
	g.widget.Prompt = false
}

// Widget returns a copy of the current render model. The prompt flag is consumed so the
// one-tap prompt is shown on a single page load only.
func (g *GoogleIdentity) Widget() Widget {
	g.mu.Lock()
	defer g.mu.Unlock()
	w := g.widget
	g.widget.Prompt = false
	return w
}

// Deliver passes a credential posted by the widget to the registered callback.
func (g *GoogleIdentity) Deliver(ctx context.Context, credential string) error {
	g.mu.Lock()
	cb := g.callback
	g.mu.Unlock()
	if cb == nil {
		return ErrNotInitialized
	}
	return cb(ctx, credential)
}
