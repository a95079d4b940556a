package indicator

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// LogFactory creates indicators that write their state to a logger.
// Used where no game client is attached, such as the operator CLI.
type LogFactory struct {
	Logger *slog.Logger
}

// CreateIndicator implements Factory
func (f LogFactory) CreateIndicator(playerID uuid.UUID) Indicator {
	log := f.Logger
	if log == nil {
		log = slog.Default()
	}
	return &logIndicator{log: log.With(logger.AttrKeyPlayerID, playerID.String())}
}

type logIndicator struct {
	log *slog.Logger
}

func (i *logIndicator) Render(title string, progress float64) {
	i.log.Info("Progress indicator", "title", title, "progress", progress)
}

func (i *logIndicator) SetVisible(visible bool) {
	i.log.Debug("Progress indicator visibility", "visible", visible)
}

func (i *logIndicator) Destroy() {
	i.log.Debug("Progress indicator destroyed")
}
