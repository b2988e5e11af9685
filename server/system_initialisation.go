package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/internal/config"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/jrsteele09/go-calendar-viewer/internal/metrics"
	"github.com/rs/zerolog/log"
)

// InitialiseDeps builds the production collaborators from configuration: the credential
// decoder selected by TOKEN_VERIFICATION and the Google Calendar bootstrapper.
func InitialiseDeps(ctx context.Context, cfg config.Config) (Deps, error) {
	decoder, err := newDecoder(ctx, cfg)
	if err != nil {
		return Deps{}, errors.Wrapf(err, "[Server InitialiseDeps]")
	}

	bootstrapper := calendarapi.NewGoogleBootstrapper(calendarapi.BootstrapConfig{
		APIKey:       cfg.GetGoogleAPIKey(),
		DiscoveryURL: cfg.GetDiscoveryURL(),
		Endpoint:     cfg.GetCalendarEndpoint(),
		Timeout:      cfg.GetBootstrapTimeout(),
		HTTPClient:   &http.Client{Timeout: cfg.GetBootstrapTimeout()},
	})

	log.Info().
		Str("discovery", cfg.GetDiscoveryURL()).
		Str("verification", string(cfg.GetTokenVerification())).
		Bool("consent", cfg.GetGoogleClientSecret() != "").
		Msg("Calendar viewer configured")

	return Deps{
		Decoder:      decoder,
		Bootstrapper: bootstrapper,
		Metrics:      metrics.New(),
	}, nil
}

func newDecoder(ctx context.Context, cfg config.Config) (identity.Decoder, error) {
	switch cfg.GetTokenVerification() {
	case config.VerifyNone:
		return identity.NewUnverifiedDecoder(), nil
	case config.VerifyOIDC:
		decoder, err := identity.NewOIDCDecoder(ctx, identity.GoogleIssuer, cfg.GetGoogleClientID())
		if err != nil {
			return nil, fmt.Errorf("failed to load identity provider keys: %w", err)
		}
		return decoder, nil
	default:
		return nil, fmt.Errorf("unknown TOKEN_VERIFICATION %q", cfg.GetTokenVerification())
	}
}
