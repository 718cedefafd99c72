package docstore

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewPostgres,
		func(p *Postgres) Store { return p },
	),
)
