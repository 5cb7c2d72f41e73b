package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/pstwh/fasttoggl/internal/domain"
)

// ErrProvisionDeclined indicates the operator declined to create a project.
// The associated activities are excluded from submission but stay visible.
var ErrProvisionDeclined = errors.New("project creation declined")

// Provisioner creates missing projects in the remote service, strictly after
// operator confirmation.
type Provisioner struct {
	creator ProjectCreator
}

// NewProvisioner builds a Provisioner over the given remote capability.
func NewProvisioner(creator ProjectCreator) *Provisioner {
	return &Provisioner{creator: creator}
}

// Provision creates the named project in the workspace. confirmed must
// reflect an explicit operator decision; without it no create call is made
// and ErrProvisionDeclined is returned. A remote failure is returned as-is
// so the save can be aborted with the error surfaced, never retried
// silently.
func (p *Provisioner) Provision(ctx context.Context, mention string, workspaceID int64, confirmed bool) (*domain.Project, error) {
	if !confirmed {
		return nil, fmt.Errorf("%w: %s", ErrProvisionDeclined, mention)
	}
	project, err := p.creator.CreateProject(ctx, workspaceID, mention)
	if err != nil {
		return nil, err
	}
	return project, nil
}
