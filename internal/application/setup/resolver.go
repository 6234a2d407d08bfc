package setup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/platform"
)

// Resolver turns "ensure this remote resource exists" into an identifier.
// Creation is attempted first; a duplicate-name rejection falls back to a
// name lookup so reruns converge on the existing resource instead of
// failing.
type Resolver struct {
	gateway platform.AdminGateway
	logger  *zap.Logger
}

func NewResolver(gateway platform.AdminGateway, logger *zap.Logger) *Resolver {
	return &Resolver{gateway: gateway, logger: logger}
}

// resolve runs the shared create-then-recover sequence for one resource
// kind. lookup is nil for kinds without a duplicate-name path; their user
// errors are always fatal.
func (r *Resolver) resolve(
	ctx context.Context,
	kind platform.ResourceKind,
	name string,
	create func(ctx context.Context) (string, error),
	lookup func(ctx context.Context) ([]platform.NamedResource, error),
) (string, error) {
	id, err := create(ctx)
	if err == nil {
		r.logger.Info("remote resource created",
			zap.String("kind", kind.String()),
			zap.String("id", id))
		return id, nil
	}

	userErrs, ok := platform.AsUserErrors(err)
	if !ok {
		return "", fmt.Errorf("create %s: %w", kind, err)
	}
	if lookup == nil || !platform.IsConflict(kind, userErrs.Messages) {
		return "", fmt.Errorf("create %s: %w", kind, err)
	}

	r.logger.Info("remote resource already exists, resolving by name",
		zap.String("kind", kind.String()),
		zap.String("name", name))

	resources, err := lookup(ctx)
	if err != nil {
		return "", fmt.Errorf("lookup %s after conflict: %w", kind, err)
	}
	for _, res := range resources {
		if res.Name == name {
			return res.ID, nil
		}
	}

	// The platform reported a name collision but the lookup does not show
	// the resource. Surface it rather than retrying blindly.
	return "", fmt.Errorf("%s %q: %w", kind, name, platform.ErrResolutionInconsistency)
}

// ResolveWebhookSubscription ensures the order webhook exists. Webhook
// subscriptions have no duplicate-name recovery, so any validation error is
// fatal.
func (r *Resolver) ResolveWebhookSubscription(ctx context.Context, merchant string, cfg platform.WebhookSubscriptionConfig) (string, error) {
	return r.resolve(ctx, platform.ResourceKindWebhookSubscription, cfg.Topic,
		func(ctx context.Context) (string, error) {
			return r.gateway.CreateWebhookSubscription(ctx, merchant, cfg)
		},
		nil,
	)
}

// ResolveFulfillmentService ensures the fulfillment service exists,
// recovering its id by exact name when creation reports a taken name.
func (r *Resolver) ResolveFulfillmentService(ctx context.Context, merchant string, cfg platform.FulfillmentServiceConfig) (string, error) {
	return r.resolve(ctx, platform.ResourceKindFulfillmentService, cfg.Name,
		func(ctx context.Context) (string, error) {
			return r.gateway.CreateFulfillmentService(ctx, merchant, cfg)
		},
		func(ctx context.Context) ([]platform.NamedResource, error) {
			return r.gateway.ListFulfillmentServices(ctx, merchant)
		},
	)
}

// ResolveCarrierService ensures the carrier service exists, recovering its
// id by exact name when creation reports it is already configured.
func (r *Resolver) ResolveCarrierService(ctx context.Context, merchant string, cfg platform.CarrierServiceConfig) (string, error) {
	return r.resolve(ctx, platform.ResourceKindCarrierService, cfg.Name,
		func(ctx context.Context) (string, error) {
			return r.gateway.CreateCarrierService(ctx, merchant, cfg)
		},
		func(ctx context.Context) ([]platform.NamedResource, error) {
			return r.gateway.ListCarrierServices(ctx, merchant, cfg.Name)
		},
	)
}
