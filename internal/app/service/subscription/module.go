package subscription

import (
	"go.uber.org/fx"

	"github.com/fatflowers/planledger/internal/platform/paddle"
)

// Module exposes the subscription service via Fx.
var Module = fx.Options(
	fx.Provide(
		func(c *paddle.Client) Remote { return c },
		NewService,
	),
)
