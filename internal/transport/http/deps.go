package http

import (
	"github.com/judicial-monitor/internal/application/favorite"
	"github.com/judicial-monitor/internal/application/notification"
	"github.com/judicial-monitor/internal/application/snapshot"
	"github.com/judicial-monitor/internal/transport/http/handler"
	appmiddleware "github.com/judicial-monitor/internal/transport/http/middleware"
	"github.com/sirupsen/logrus"
)

// Deps holds the services and collaborators the router mounts.
type Deps struct {
	Verifier      appmiddleware.TokenVerifier
	Notifications notification.Service
	Favorites     favorite.Service
	Snapshots     snapshot.Service
	// Trigger is nil when monitoring is disabled; the admin route is then not mounted.
	Trigger handler.MonitoringTrigger
	Log     logrus.FieldLogger
}
