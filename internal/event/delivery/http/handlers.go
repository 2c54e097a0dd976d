package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"snapcal/pkg/icsexport"
	"snapcal/pkg/response"
)

// ProcessImage godoc
// @Summary     Create a calendar event from an image
// @Description Extracts a single event from the uploaded image and inserts it into the configured Google Calendar.
// @Tags        Events
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Event notice image (image/*)"
// @Success     200 {object} response.Resp{data=processResp}
// @Failure     400 {object} response.Resp "Bad Request - missing or non-image upload"
// @Failure     401 {object} response.Resp "Calendar authorization failed"
// @Failure     413 {object} response.Resp "Upload too large"
// @Failure     422 {object} response.Resp "Model reply could not be parsed or validated"
// @Failure     429 {object} response.Resp "Too many requests"
// @Failure     502 {object} response.Resp "Vision model or calendar failure"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/events/process-image [POST]
func (h *handler) ProcessImage(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUploadReq(c)
	if err != nil {
		h.reportError(c, err)
		return
	}
	defer req.cleanup()

	output, err := h.uc.Process(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "event.http.ProcessImage: uc.Process(%s): %v", req.Filename, err)
		h.reportError(c, err)
		return
	}

	response.OK(c, h.newProcessResp(output))
}

// ProcessImageLegacy godoc
// @Summary     Create a calendar event from an image (unversioned)
// @Description Same pipeline as /api/v1/events/process-image with the flat {success, event_link} body.
// @Tags        Events
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Event notice image (image/*)"
// @Success     200 {object} legacyProcessResp
// @Failure     400 {object} legacyProcessResp
// @Failure     422 {object} legacyProcessResp
// @Failure     502 {object} legacyProcessResp
// @Router      /api/process-image [POST]
func (h *handler) ProcessImageLegacy(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUploadReq(c)
	if err != nil {
		status, msg, _ := h.mapError(err)
		c.JSON(status, legacyProcessResp{Detail: msg})
		return
	}
	defer req.cleanup()

	output, err := h.uc.Process(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "event.http.ProcessImageLegacy: uc.Process(%s): %v", req.Filename, err)
		status, msg, _ := h.mapError(err)
		c.JSON(status, legacyProcessResp{Detail: msg})
		return
	}

	c.JSON(http.StatusOK, legacyProcessResp{Success: true, EventLink: output.Created.HTMLLink})
}

// Extract godoc
// @Summary     Extract an event without creating it
// @Description Runs extraction and validation only. With format=ics the event is returned as an iCalendar file.
// @Tags        Events
// @Accept      multipart/form-data
// @Produce     json
// @Produce     text/calendar
// @Param       file   formData file   true  "Event notice image (image/*)"
// @Param       format query    string false "Response format (json|ics)"
// @Success     200 {object} response.Resp{data=extractResp}
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     422 {object} response.Resp "Model reply could not be parsed or validated"
// @Failure     502 {object} response.Resp "Vision model failure"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/events/extract [POST]
func (h *handler) Extract(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUploadReq(c)
	if err != nil {
		h.reportError(c, err)
		return
	}
	defer req.cleanup()

	output, err := h.uc.Extract(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "event.http.Extract: uc.Extract(%s): %v", req.Filename, err)
		h.reportError(c, err)
		return
	}

	if !wantsICS(c) {
		response.OK(c, h.newExtractResp(output))
		return
	}

	ev, err := h.newICSEvent(output)
	if err != nil {
		h.l.Errorf(ctx, "event.http.Extract: ics: %v", err)
		response.InternalError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := icsexport.Encode(&buf, ev); err != nil {
		h.l.Errorf(ctx, "event.http.Extract: encode ics: %v", err)
		response.InternalError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="event.ics"`)
	c.Data(http.StatusOK, icsexport.ContentType, buf.Bytes())
}

func (h *handler) reportError(c *gin.Context, err error) {
	status, msg, detail := h.mapError(err)
	response.ErrorWithStatus(c, status, msg, detail)
}
