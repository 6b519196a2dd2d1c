package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brfkastanjen/member-portal/internal/config"
	"github.com/brfkastanjen/member-portal/internal/model"
	"github.com/brfkastanjen/member-portal/internal/repository"
	"github.com/brfkastanjen/member-portal/internal/storage"
)

// MeetingHandler serves board meetings and their protocol documents:
// listing for members, meeting and document administration for the
// board, and the signed download URLs that let a browser fetch a
// document body without a JWT.
type MeetingHandler struct {
	Cfg      config.Config
	Meetings *repository.MeetingRepo
	Store    *storage.Store
	Guard    *storage.DownloadGuard
}

func NewMeetingHandler(cfg config.Config, m *repository.MeetingRepo, s *storage.Store, g *storage.DownloadGuard) *MeetingHandler {
	return &MeetingHandler{Cfg: cfg, Meetings: m, Store: s, Guard: g}
}

type meetingReq struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Title string `json:"title"`
}

type importDocumentReq struct {
	URL  string `json:"url"`
	Name string `json:"name"` // optional; defaults to the URL's filename
}

type documentResp struct {
	ID        string `json:"id"`
	MeetingID string `json:"meeting_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type meetingResp struct {
	ID        string         `json:"id"`
	Date      string         `json:"date"`
	Title     string         `json:"title"`
	Documents []documentResp `json:"documents"`
}

type signedURLResp struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

func toDocumentResp(d model.BoardMeetingDocument) documentResp {
	return documentResp{
		ID:        d.ID,
		MeetingID: d.MeetingID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns every meeting newest first, each with its documents
// attached. Document rows are fetched once and grouped in memory.
func (h *MeetingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	meetings, err := h.Meetings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	docs, err := h.Meetings.ListDocuments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	byMeeting := make(map[string][]documentResp, len(meetings))
	for _, d := range docs {
		byMeeting[d.MeetingID] = append(byMeeting[d.MeetingID], toDocumentResp(d))
	}

	out := make([]meetingResp, 0, len(meetings))
	for _, m := range meetings {
		resp := meetingResp{
			ID:        m.ID,
			Date:      m.Date.UTC().Format(dateLayout),
			Title:     m.Title,
			Documents: byMeeting[m.ID],
		}
		if resp.Documents == nil {
			resp.Documents = []documentResp{}
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a board meeting (admin only).
func (h *MeetingHandler) Create(c echo.Context) error {
	var req meetingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Meetings.Create(ctx, date, req.Title)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create meeting failed"})
	}
	return c.JSON(http.StatusCreated, meetingResp{
		ID:        id,
		Date:      date.Format(dateLayout),
		Title:     req.Title,
		Documents: []documentResp{},
	})
}

// Delete removes a meeting, its document rows and their stored files
// (admin only). Files are removed first; a file that is already gone is
// not an error.
func (h *MeetingHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id := c.Param("id")
	docs, err := h.Meetings.ListDocumentsByMeeting(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for _, d := range docs {
		if err := h.Store.Remove(d.FilePath); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove document file failed"})
		}
	}
	if err := h.Meetings.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "meeting not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete meeting failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadDocument stores a protocol file for a meeting (admin only,
// multipart field "file"). The stored object key carries a timestamp
// prefix and a sanitized filename; the original name is kept on the row
// for display.
func (h *MeetingHandler) UploadDocument(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	meetingID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	ok, err := h.Meetings.Exists(ctx, meetingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "meeting not found"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open upload failed"})
	}
	defer src.Close()

	key, err := h.Store.Save(meetingID, fh.Filename, src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store document failed"})
	}

	name := c.FormValue("name")
	if name == "" {
		name = fh.Filename
	}
	docID, err := h.Meetings.CreateDocument(ctx, meetingID, name, key, &uid)
	if err != nil {
		// The row failed, so the stored body is unreachable; drop it.
		_ = h.Store.Remove(key)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create document failed"})
	}
	d, err := h.Meetings.GetDocument(ctx, docID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load document failed"})
	}
	return c.JSON(http.StatusCreated, toDocumentResp(d))
}

// ImportDocument fetches a document from a remote URL and attaches it
// to a meeting (admin only). Used to pull protocols from the
// association's previous website; transient upstream failures are
// retried with the configured attempt count and linearly increasing
// delay. Concurrent imports of the same URL are rejected through the
// guard.
func (h *MeetingHandler) ImportDocument(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	meetingID := c.Param("id")

	var req importDocumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	src, err := url.Parse(req.URL)
	if err != nil || (src.Scheme != "http" && src.Scheme != "https") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url must be http or https"})
	}
	name := req.Name
	if name == "" {
		name = path.Base(src.Path)
	}
	if name == "" || name == "." || name == "/" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	ok, err := h.Meetings.Exists(ctx, meetingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "meeting not found"})
	}

	dctx, err := h.Guard.Begin(ctx, req.URL)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "this url is already importing"})
	}
	defer h.Guard.Done(req.URL)

	key, err := h.Store.ImportFromURL(dctx, nil, meetingID, name, req.URL,
		h.Cfg.DownloadTries, h.Cfg.DownloadDelay)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "fetch document failed"})
	}

	docID, err := h.Meetings.CreateDocument(ctx, meetingID, name, key, &uid)
	if err != nil {
		_ = h.Store.Remove(key)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create document failed"})
	}
	d, err := h.Meetings.GetDocument(ctx, docID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load document failed"})
	}
	return c.JSON(http.StatusCreated, toDocumentResp(d))
}

// DocumentURL issues a time-limited signed download URL for a document.
// The returned link works without a JWT; the signature is the
// capability.
func (h *MeetingHandler) DocumentURL(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Meetings.GetDocument(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	key, exp, sig := h.Store.SignedQuery(d.FilePath, h.Cfg.SignedURLTTL)
	u := fmt.Sprintf("/v1/documents/download?path=%s&exp=%d&sig=%s",
		(&url.URL{Path: key}).EscapedPath(), exp, sig)
	return c.JSON(http.StatusOK, signedURLResp{
		URL:       u,
		ExpiresAt: time.Unix(exp, 0).UTC().Format(time.RFC3339),
	})
}

// Download streams a document body for a valid signed URL. No JWT is
// required; the HMAC signature over path and expiry is checked instead.
// Transfers of the same document are deduplicated through the guard: a
// second request for a key that is still streaming gets 409, while
// downloads of other documents proceed in parallel.
func (h *MeetingHandler) Download(c echo.Context) error {
	key := c.QueryParam("path")
	sig := c.QueryParam("sig")
	exp, err := strconv.ParseInt(c.QueryParam("exp"), 10, 64)
	if err != nil || key == "" || sig == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "path, exp and sig required"})
	}

	switch err := h.Store.Verify(key, exp, sig); err {
	case nil:
	case storage.ErrExpired:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "link expired"})
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid signature"})
	}

	dctx, err := h.Guard.Begin(c.Request().Context(), key)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "this document is already downloading"})
	}
	defer h.Guard.Done(key)

	f, err := h.Store.Open(key)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
	}
	defer f.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, path.Base(key)))
	return c.Stream(http.StatusOK, "application/octet-stream", readerCtx{dctx, f})
}

// DeleteDocument removes a document row and its stored file (admin
// only).
func (h *MeetingHandler) DeleteDocument(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Meetings.GetDocument(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Store.Remove(d.FilePath); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove document file failed"})
	}
	if err := h.Meetings.DeleteDocument(ctx, d.ID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete document failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// readerCtx stops a streaming copy when the guard's context is
// cancelled.
type readerCtx struct {
	ctx context.Context
	r   io.Reader
}

func (r readerCtx) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
