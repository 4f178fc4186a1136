package wcaservice

import (
	"context"

	wcaclient "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/client"
	wcifservice "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/application"
	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
)

// WCIFClient is the part of *wcaclient.Client the sync service uses.
type WCIFClient interface {
	Fetch(ctx context.Context, competitionID string) (string, error)
	Send(ctx context.Context, competitionID, wcif string) (string, error)
	ListCompetitions(ctx context.Context) ([]wcaclient.Competition, error)
}

// Service moves WCIF documents between the WCA and local containers.
type Service interface {
	Load(ctx context.Context, competitionID string) (*wcifservice.Container, error)
	Push(ctx context.Context, competitionID string, c *wcifservice.Container) (string, error)
	Update(ctx context.Context, competitionID string, mutate func(*wcifservice.Container) error) (*wcifservice.Container, error)
	AddGroups(ctx context.Context, competitionID, eventID string, round, groups int) ([]wcifdomain.Activity, error)
	ManagedCompetitions(ctx context.Context, includeCancelled bool) ([]wcaclient.Competition, error)
}

var _ WCIFClient = (*wcaclient.Client)(nil)
