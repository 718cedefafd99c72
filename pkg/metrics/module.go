package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const Subsystem = "planledger"

func newDefaultDomain() *Domain {
	return NewDomain(prometheus.DefaultRegisterer, Subsystem)
}

var Module = fx.Options(
	fx.Provide(newDefaultDomain),
)
