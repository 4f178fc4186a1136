package wcaservice

import (
	"context"
	"errors"

	wcaclient "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/client"
)

// ------------------------
// Fake WCIF Client
// ------------------------

type FakeWCIFClient struct {
	trace []string

	FetchFunc            func(ctx context.Context, competitionID string) (string, error)
	SendFunc             func(ctx context.Context, competitionID, wcif string) (string, error)
	ListCompetitionsFunc func(ctx context.Context) ([]wcaclient.Competition, error)
}

func NewFakeWCIFClient() *FakeWCIFClient {
	return &FakeWCIFClient{
		trace: []string{},
	}
}

func (f *FakeWCIFClient) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeWCIFClient) Trace() []string {
	return f.trace
}

func (f *FakeWCIFClient) Fetch(ctx context.Context, competitionID string) (string, error) {
	f.record("Fetch")
	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, competitionID)
	}
	return "", errors.New("fetch not configured")
}

func (f *FakeWCIFClient) Send(ctx context.Context, competitionID, wcif string) (string, error) {
	f.record("Send")
	if f.SendFunc != nil {
		return f.SendFunc(ctx, competitionID, wcif)
	}
	return `{"status":"ok"}`, nil
}

func (f *FakeWCIFClient) ListCompetitions(ctx context.Context) ([]wcaclient.Competition, error) {
	f.record("ListCompetitions")
	if f.ListCompetitionsFunc != nil {
		return f.ListCompetitionsFunc(ctx)
	}
	return nil, nil
}

var _ WCIFClient = (*FakeWCIFClient)(nil)
