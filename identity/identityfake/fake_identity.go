package identityfake

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
)

// FakeProvider records the widget calls made by the orchestrator.
type FakeProvider struct {
	mu       sync.Mutex
	Calls    []string
	ClientID string
	Anchor   string
	Callback identity.CredentialCallback
}

var _ identity.IdentityProvider = (*FakeProvider)(nil)

func (f *FakeProvider) Initialize(clientID string, callback identity.CredentialCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "initialize")
	f.ClientID = clientID
	f.Callback = callback
}

func (f *FakeProvider) RenderButton(anchor string, _ identity.ButtonOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "renderButton")
	f.Anchor = anchor
}

func (f *FakeProvider) Prompt() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "prompt")
}

func (f *FakeProvider) DisableAutoSelect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "disableAutoSelect")
}

func (f *FakeProvider) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *FakeProvider) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

// FakeDecoder treats the raw credential as "email:<address>" and rejects anything else.
type FakeDecoder struct {
	Verify bool
}

var _ identity.Decoder = FakeDecoder{}

// Credential builds a credential FakeDecoder accepts.
func Credential(email string) string {
	return "email:" + email
}

func (d FakeDecoder) Decode(_ context.Context, raw string) (identity.Claims, error) {
	var email string
	if _, err := fmt.Sscanf(raw, "email:%s", &email); err != nil || email == "" {
		return identity.Claims{}, fmt.Errorf("%w: %q", errors.ErrMalformedCredential, raw)
	}
	return identity.Claims{Subject: email, Email: email, EmailVerified: true}, nil
}

func (d FakeDecoder) Verified() bool { return d.Verify }
