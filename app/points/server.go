package points

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayggdrasil/options-trading-base-sub001/app/points/controller"
	"github.com/ayggdrasil/options-trading-base-sub001/app/points/types"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/utils"
)

// NewServer builds the HTTP server serving the read queries and the manual
// job triggers.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router, err := ctler.NewRouter()
	if err != nil {
		return err
	}

	// use <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces
	addr := utils.Env("ADDR", ":3003")

	app.Server = &http.Server{Addr: addr, Handler: controller.WithCORS(router)}
	app.Logger.Info("Starting server", zap.String("addr", addr))

	return nil
}
