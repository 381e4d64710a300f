package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applysink/applysink/app"
	"github.com/applysink/applysink/models/responses"
	"github.com/applysink/applysink/services"
)

// GetVersion godoc
// @Summary     Returns server version information
// @Schemes
// @Description version information
// @Tags        admin
// @Accept      json
// @Produce     json
// @Success     200 {object} responses.ServerInfoResponse
// @Failure     500 {} http.StatusInternalServerError
// @Router      /admin/version [get]
func GetVersion(version, commit string) func(c *gin.Context) {
	return func(c *gin.Context) {
		appG := app.Gin{C: c}

		appG.Response(http.StatusOK, responses.ServerInfoResponse{Commit: commit, Version: version})
	}
}

// GetRunCount godoc
// @Summary     Returns the number of live application runs
// @Schemes
// @Description Returns the number of live application runs
// @Tags        admin
// @Accept      json
// @Produce     json
// @Success     200 {object} int
// @Router      /admin/runs [get]
func GetRunCount(c *gin.Context) {
	appG := app.Gin{C: c}
	appG.Response(http.StatusOK, services.ApplyService().ActiveCount())
}
