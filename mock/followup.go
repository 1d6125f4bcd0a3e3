package mock

import (
	"context"

	"github.com/fwojciec/docbot"
)

var _ docbot.FollowUpDeriver = (*FollowUpDeriver)(nil)

// FollowUpDeriver is a mock implementation of docbot.FollowUpDeriver.
type FollowUpDeriver struct {
	DeriveFollowUpsFn func(ctx context.Context, req *docbot.FollowUpRequest) ([]string, error)
}

func (d *FollowUpDeriver) DeriveFollowUps(ctx context.Context, req *docbot.FollowUpRequest) ([]string, error) {
	return d.DeriveFollowUpsFn(ctx, req)
}
