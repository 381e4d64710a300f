package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applysink/applysink/app"
	"github.com/applysink/applysink/models/requests"
	"github.com/applysink/applysink/models/responses"
	"github.com/applysink/applysink/services"
)

// GetProviders godoc
// @Summary     Return the registered automation providers
// @Schemes
// @Description Return the registered automation providers
// @Tags        providers
// @Accept      json
// @Produce     json
// @Success     200 {object} []responses.ProviderResponse
// @Router      /providers [get]
func GetProviders(c *gin.Context) {
	appG := app.Gin{C: c}

	infos := services.Providers()
	response := make([]responses.ProviderResponse, 0, len(infos))
	for _, info := range infos {
		response = append(response, responses.ProviderResponse{
			Name:        info.Name,
			DisplayName: info.DisplayName,
			Kind:        string(info.Capabilities.Kind),
			Flags:       info.Capabilities.Flags,
		})
	}

	appG.Response(http.StatusOK, response)
}

// SearchBoard godoc
// @Summary     Search one provider's job board
// @Schemes
// @Description Search one provider's job board
// @Tags        providers
// @Param       SearchRequest body requests.SearchRequest true "Provider and query"
// @Accept      json
// @Produce     json
// @Success     200 {object} []providers.Listing
// @Failure     400 {}  http.StatusBadRequest
// @Failure     404 {}  http.StatusNotFound
// @Failure     500 {}  http.StatusInternalServerError
// @Router      /providers/search [post]
func SearchBoard(c *gin.Context) {
	appG := app.Gin{C: c}

	var request requests.SearchRequest
	if err := c.BindJSON(&request); err != nil {
		appG.Error(http.StatusBadRequest, err)
		return
	}

	listings, err := services.SearchBoard(c.Request.Context(), request.Provider, request.Query)
	if err != nil {
		appG.Error(http.StatusInternalServerError, err)
		return
	}

	appG.Response(http.StatusOK, listings)
}

// GetPosting godoc
// @Summary     Fetch one job posting from a provider
// @Schemes
// @Description Fetch one job posting from a provider
// @Tags        providers
// @Param       name path string true "Provider name"
// @Param       externalId path string true "Board-side posting id"
// @Produce     json
// @Success     200 {object} providers.Posting
// @Failure     404 {}  http.StatusNotFound
// @Failure     500 {}  http.StatusInternalServerError
// @Router      /providers/{name}/postings/{externalId} [get]
func GetPosting(c *gin.Context) {
	appG := app.Gin{C: c}

	posting, err := services.FetchPosting(c.Request.Context(), c.Param("name"), c.Param("externalId"))
	if err != nil {
		appG.Error(http.StatusInternalServerError, err)
		return
	}

	appG.Response(http.StatusOK, posting)
}
