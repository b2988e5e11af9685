package authflowrepo

import "time"

// AuthFlowState is the pending state of one calendar consent redirect.
type AuthFlowState struct {
	SessionID    string
	CodeVerifier string
	ReturnURL    string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	Get(state string) (*AuthFlowState, error)
	Delete(state string) error
}
