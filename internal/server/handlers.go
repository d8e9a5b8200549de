package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jmagar/jellybrowse/internal/browser"
	"github.com/jmagar/jellybrowse/internal/logger"
)

// DefaultPageSize applies when a request omits pageSize.
const DefaultPageSize = 50

// statusClientClosed is logged for requests abandoned by the client.
const statusClientClosed = 499

type handler struct {
	session *browser.Session
	hub     *Hub
	log     logger.Logger
}

type searchRequest struct {
	Query string `json:"query"`
}

// statusFor maps a result code to the HTTP status sent with it.
func statusFor(code browser.ResultCode) int {
	switch code {
	case browser.ResultSuccess:
		return http.StatusOK
	case browser.ResultErrorBadValue:
		return http.StatusBadRequest
	case browser.ResultErrorNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

// await waits for f and writes its result. A client that goes away first
// gets nothing; its request context has already cancelled the task.
func await[T any](c *gin.Context, f *browser.Future[browser.LibraryResult[T]]) {
	res, err := f.Get(c.Request.Context())
	if err != nil {
		f.Cancel()
		_ = c.Error(err)
		c.AbortWithStatus(statusClientClosed)
		return
	}
	if !res.OK() {
		logger.FromContext(c.Request.Context()).Debug("library request failed",
			logger.Int("result_code", int(res.Code)),
			logger.String("error", res.Error),
		)
	}
	c.JSON(statusFor(res.Code), res)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, browser.LibraryResult[struct{}]{
		Code:  browser.ResultErrorBadValue,
		Error: msg,
	})
}

// paging reads page and pageSize from the query string.
func paging(c *gin.Context) (page, pageSize int, err error) {
	page, err = intQuery(c, "page", 0)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err = intQuery(c, "pageSize", DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func boolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

func (h *handler) getRoot(c *gin.Context) {
	flags := browser.RootFlags{
		IsRecent:    boolQuery(c, "recent"),
		IsSuggested: boolQuery(c, "suggested"),
	}
	await(c, h.session.GetLibraryRoot(c.Request.Context(), flags))
}

func (h *handler) getChildren(c *gin.Context) {
	page, pageSize, err := paging(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	await(c, h.session.GetChildren(c.Request.Context(), c.Query("parentId"), page, pageSize))
}

func (h *handler) getItem(c *gin.Context) {
	await(c, h.session.GetItem(c.Request.Context(), c.Query("mediaId")))
}

func (h *handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	await(c, h.session.Search(c.Request.Context(), req.Query))
}

func (h *handler) getSearchResult(c *gin.Context) {
	page, pageSize, err := paging(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	await(c, h.session.GetSearchResult(c.Request.Context(), c.Query("query"), page, pageSize))
}

func (h *handler) addMediaItems(c *gin.Context) {
	var items []browser.MediaItem
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	await(c, h.session.AddMediaItems(c.Request.Context(), items))
}
