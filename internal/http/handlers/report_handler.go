// README: Report handlers: submit (JSON or multipart with photo) and list own reports.
package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fairride/internal/http/middleware"
	"fairride/internal/modules/report"
	"fairride/internal/types"
)

type ReportService interface {
	Submit(ctx context.Context, sub report.Submission) (report.Report, error)
	List(ctx context.Context, ownerID string) ([]report.Report, error)
}

type ReportHandler struct {
	reports ReportService
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{reports: svc}
}

type submitReportReq struct {
	Type        string         `json:"type"`
	CustomType  string         `json:"customType"`
	MTOPID      string         `json:"mtopId"`
	Description string         `json:"description"`
	PhotoURL    string         `json:"photoUrl"`
	Location    *coordinateReq `json:"location"`
	TripID      string         `json:"tripId"`
}

func (h *ReportHandler) Submit(c *gin.Context) {
	sub := report.Submission{OwnerID: middleware.CallerUID(c)}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if !h.bindMultipart(c, &sub) {
			return
		}
	} else {
		var req submitReportReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
		sub.Type = report.Type(req.Type)
		sub.CustomType = req.CustomType
		sub.MTOPID = req.MTOPID
		sub.Description = req.Description
		sub.PhotoURL = req.PhotoURL
		sub.TripID = types.ID(req.TripID)
		if req.Location != nil {
			p, ok := req.Location.toCoordinate()
			if !ok {
				writeError(c, http.StatusBadRequest, "invalid location")
				return
			}
			sub.Location = &p
		}
	}

	if sub.Photo != nil {
		if cl, ok := sub.Photo.Body.(io.Closer); ok {
			defer cl.Close()
		}
	}

	r, err := h.reports.Submit(c.Request.Context(), sub)
	if err != nil {
		writeReportError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *ReportHandler) bindMultipart(c *gin.Context, sub *report.Submission) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, report.MaxPhotoBytes+1<<20)

	sub.Type = report.Type(c.PostForm("type"))
	sub.CustomType = c.PostForm("customType")
	sub.MTOPID = c.PostForm("mtopId")
	sub.Description = c.PostForm("description")
	sub.TripID = types.ID(c.PostForm("tripId"))

	if lat, lng := c.PostForm("latitude"), c.PostForm("longitude"); lat != "" || lng != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		ln, err2 := strconv.ParseFloat(lng, 64)
		if err1 != nil || err2 != nil {
			writeError(c, http.StatusBadRequest, "invalid location")
			return false
		}
		sub.Location = &types.Coordinate{Latitude: la, Longitude: ln}
	}

	fh, err := c.FormFile("photo")
	if err == http.ErrMissingFile {
		return true
	}
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid photo upload")
		return false
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid photo upload")
		return false
	}
	sub.Photo = &report.Photo{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	return true
}

func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeReportError(c, err)
		return
	}
	if reports == nil {
		reports = []report.Report{}
	}
	writeJSON(c, http.StatusOK, gin.H{"reports": reports})
}
