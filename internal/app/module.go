package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/planledger/internal/app/api/server"
	notificationhandler "github.com/fatflowers/planledger/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/planledger/internal/app/service/notification_log"
	"github.com/fatflowers/planledger/internal/app/service/statistics"
	"github.com/fatflowers/planledger/internal/app/service/subscription"
	"github.com/fatflowers/planledger/internal/platform/db"
	"github.com/fatflowers/planledger/internal/platform/docstore"
	"github.com/fatflowers/planledger/internal/platform/lock"
	"github.com/fatflowers/planledger/internal/platform/paddle"
	"github.com/fatflowers/planledger/pkg/config"
	"github.com/fatflowers/planledger/pkg/logger"
	"github.com/fatflowers/planledger/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	db.Module,
	docstore.Module,
	lock.Module,
	paddle.Module,
	server.Module,
	subscription.Module,
	statistics.Module,
	notificationlog.Module,
	notificationhandler.Module,
)
