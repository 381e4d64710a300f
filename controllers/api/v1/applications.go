package v1

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/applysink/applysink/app"
	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/models/requests"
	"github.com/applysink/applysink/models/responses"
	"github.com/applysink/applysink/providers"
	"github.com/applysink/applysink/services"
)

const pingInterval = 15 * time.Second

// GetApplications godoc
// @Summary     Return the list of tracked applications
// @Schemes
// @Description Return the list of tracked applications
// @Tags        applications
// @Accept      json
// @Produce     json
// @Success     200 {object} []database.Application
// @Failure     500 {}  http.StatusInternalServerError
// @Router      /applications [get]
func GetApplications(c *gin.Context) {
	appG := app.Gin{C: c}
	if response, err := database.ApplicationList(); err != nil {
		appG.Error(http.StatusInternalServerError, err)
	} else {
		appG.Response(http.StatusOK, &response)
	}
}

// CreateApplication godoc
// @Summary     Track a new application
// @Schemes
// @Description Track a new application. The key is derived from company and title.
// @Tags        applications
// @Param       ApplicationCreateRequest body requests.ApplicationCreateRequest true "Application data"
// @Accept      json
// @Produce     json
// @Success     200 {object} database.Application
// @Failure     400 {}  http.StatusBadRequest
// @Failure     500 {}  http.StatusInternalServerError
// @Router      /applications [post]
func CreateApplication(c *gin.Context) {
	appG := app.Gin{C: c}

	var request requests.ApplicationCreateRequest
	if code := app.BindAndValid(c, &request); code != http.StatusOK {
		appG.Error(code, errors.New("invalid application data"))
		return
	}

	key := database.MakeApplicationKey(request.Company, request.Title)
	if err := key.IsValid(); err != nil {
		appG.Error(http.StatusBadRequest, err)
		return
	}

	application := &database.Application{
		ApplicationKey: key,
		Company:        request.Company,
		Title:          request.Title,
		URL:            request.URL,
		Provider:       request.Provider,
		Status:         database.StatusDiscovered,
		Score:          request.Score,
		SalaryMin:      request.SalaryMin,
		SalaryMax:      request.SalaryMax,
		Description:    request.Description,
		ExternalID:     request.ExternalID,
		ResumePath:     request.ResumePath,
		CoverLetter:    request.CoverLetter,
	}

	if err := database.CreateApplication(application); err != nil {
		appG.Error(http.StatusInternalServerError, err)
		return
	}

	appG.Response(http.StatusOK, application)
}

// GetApplication godoc
// @Summary     Return one application
// @Schemes
// @Description Return one application
// @Param       key path string true "Application key"
// @Tags        applications
// @Produce     json
// @Success     200 {object} database.Application
// @Failure     404 {}  http.StatusNotFound
// @Router      /applications/{key} [get]
func GetApplication(c *gin.Context) {
	appG := app.Gin{C: c}

	application, err := database.FindApplicationByKey(database.ApplicationKey(c.Param("key")))
	if err != nil {
		appG.Error(http.StatusNotFound, err)
		return
	}

	appG.Response(http.StatusOK, application)
}

// DeleteApplication godoc
// @Summary     Remove an application and its outcome history
// @Schemes
// @Description Remove an application and its outcome history
// @Param       key path string true "Application key"
// @Tags        applications
// @Produce     json
// @Success     200
// @Failure     500 {}  http.StatusInternalServerError
// @Router      /applications/{key} [delete]
func DeleteApplication(c *gin.Context) {
	appG := app.Gin{C: c}

	if err := database.DestroyApplication(database.ApplicationKey(c.Param("key"))); err != nil {
		appG.Error(http.StatusInternalServerError, err)
		return
	}

	appG.Response(http.StatusOK, nil)
}

// UpdateApplicationStatus godoc
// @Summary     Move an application through the pipeline by hand
// @Schemes
// @Description Move an application through the pipeline by hand
// @Param       key path string true "Application key"
// @Param       ApplicationStatusRequest body requests.ApplicationStatusRequest true "New status"
// @Tags        applications
// @Accept      json
// @Produce     json
// @Success     200
// @Failure     400 {}  http.StatusBadRequest
// @Failure     500 {}  http.StatusInternalServerError
// @Router      /applications/{key}/status [patch]
func UpdateApplicationStatus(c *gin.Context) {
	appG := app.Gin{C: c}

	var request requests.ApplicationStatusRequest
	if err := c.BindJSON(&request); err != nil {
		appG.Error(http.StatusBadRequest, err)
		return
	}

	if err := database.UpdateApplicationStatus(database.ApplicationKey(c.Param("key")), request.Status); err != nil {
		appG.Error(http.StatusInternalServerError, err)
		return
	}

	appG.Response(http.StatusOK, nil)
}

// GetOutcomes godoc
// @Summary     Return the outcome history of one application
// @Schemes
// @Description Return the outcome history of one application
// @Param       key path string true "Application key"
// @Tags        applications
// @Produce     json
// @Success     200 {object} []database.OutcomeRecord
// @Failure     500 {}  http.StatusInternalServerError
// @Router      /applications/{key}/outcomes [get]
func GetOutcomes(c *gin.Context) {
	appG := app.Gin{C: c}

	records, err := database.OutcomeList(database.ApplicationKey(c.Param("key")))
	if err != nil {
		appG.Error(http.StatusInternalServerError, err)
		return
	}

	appG.Response(http.StatusOK, records)
}

// StartApplication godoc
// @Summary     Start an automation run for an application
// @Schemes
// @Description Start an automation run for an application
// @Param       key path string true "Application key"
// @Param       ApplicationStartRequest body requests.ApplicationStartRequest true "Provider and mode"
// @Tags        applications
// @Accept      json
// @Produce     json
// @Success     200 {object} responses.StartResponse
// @Failure     400 {}  http.StatusBadRequest
// @Failure     404 {}  http.StatusNotFound
// @Failure     409 {}  http.StatusConflict
// @Router      /applications/{key}/apply [post]
func StartApplication(c *gin.Context) {
	appG := app.Gin{C: c}

	var request requests.ApplicationStartRequest
	if err := c.BindJSON(&request); err != nil {
		appG.Error(http.StatusBadRequest, err)
		return
	}

	mode, err := providers.ParseApplyMode(request.Mode)
	if err != nil {
		appG.Error(http.StatusBadRequest, err)
		return
	}

	key := database.ApplicationKey(c.Param("key"))
	session, err := services.ApplyService().StartApplication(key, request.Provider, mode)

	switch {
	case err == nil:
		appG.Response(http.StatusOK, responses.StartResponse{Key: string(session.Key), RunID: session.RunID})
	case errors.Is(err, services.ErrAlreadyApplied), errors.Is(err, bridge.ErrSessionAlreadyActive):
		appG.Error(http.StatusConflict, err)
	case errors.Is(err, services.ErrNoRecord), errors.Is(err, providers.ErrUnknownProvider):
		appG.Error(http.StatusNotFound, err)
	default:
		appG.Error(http.StatusBadRequest, err)
	}
}

// ConfirmApplication godoc
// @Summary     Confirm a run waiting at the submit gate
// @Schemes
// @Description Confirm a run waiting at the submit gate
// @Param       key path string true "Application key"
// @Tags        applications
// @Produce     json
// @Success     200
// @Failure     404 {}  http.StatusNotFound
// @Router      /applications/{key}/confirm [post]
func ConfirmApplication(c *gin.Context) {
	appG := app.Gin{C: c}

	if !services.ApplyService().Confirm(database.ApplicationKey(c.Param("key"))) {
		appG.Error(http.StatusNotFound, errors.New("no run waiting for confirmation"))
		return
	}

	appG.Response(http.StatusOK, nil)
}

// CancelApplication godoc
// @Summary     Cancel a live run
// @Schemes
// @Description Cancel a live run
// @Param       key path string true "Application key"
// @Tags        applications
// @Produce     json
// @Success     200
// @Failure     404 {}  http.StatusNotFound
// @Router      /applications/{key}/cancel [post]
func CancelApplication(c *gin.Context) {
	appG := app.Gin{C: c}

	if !services.ApplyService().Cancel(database.ApplicationKey(c.Param("key"))) {
		appG.Error(http.StatusNotFound, errors.New("no live run for key"))
		return
	}

	appG.Response(http.StatusOK, nil)
}

// GetSessions godoc
// @Summary     Return all live application runs
// @Schemes
// @Description Return all live application runs
// @Tags        applications
// @Produce     json
// @Success     200 {object} []responses.SessionResponse
// @Router      /applications/sessions [get]
func GetSessions(c *gin.Context) {
	appG := app.Gin{C: c}

	sessions := services.ApplyService().ActiveSessions()
	response := make([]responses.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		response = append(response, responses.SessionResponse{
			Key:       string(session.Key),
			RunID:     session.RunID,
			CreatedAt: session.CreatedAt,
		})
	}

	appG.Response(http.StatusOK, response)
}

// StreamEvents godoc
// @Summary     Stream the events of a live run as server-sent events
// @Schemes
// @Description One consumer per run. The stream ends after the terminal event.
// @Param       key path string true "Application key"
// @Tags        applications
// @Produce     text/event-stream
// @Success     200
// @Failure     404 {}  http.StatusNotFound
// @Router      /applications/{key}/events [get]
func StreamEvents(c *gin.Context) {
	appG := app.Gin{C: c}

	key := database.ApplicationKey(c.Param("key"))
	events, err := services.ApplyService().EventStream(key)
	if err != nil {
		appG.Error(http.StatusNotFound, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			if event.Kind.Terminal() {
				log.Infof("[StreamEvents] Closing stream for '%s' after '%s'", key, event.Kind)
				return false
			}
			return true
		case <-ticker.C:
			c.SSEvent(string(bridge.EventPing), time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
