package validator

import (
	"context"

	"github.com/dropgate-systems/dropgate/internal/models"
)

// Validator defines the contract for notification validation units.
type Validator interface {
	Validate(ctx context.Context, n *models.Notification) error
	Supports(eventType string) bool
}

// Chain applies a list of validators sequentially.
type Chain struct {
	validators []Validator
}

// NewChain constructs a validator chain.
func NewChain(validators ...Validator) *Chain {
	return &Chain{validators: validators}
}

// Validate executes validators in order until an error occurs.
func (c *Chain) Validate(ctx context.Context, n *models.Notification) error {
	if c == nil {
		return nil
	}
	for _, v := range c.validators {
		if v.Supports(n.EventType) {
			if err := v.Validate(ctx, n); err != nil {
				return err
			}
		}
	}
	return nil
}
