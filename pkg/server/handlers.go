package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shadowboard/shadowboard/pkg/buildinfo"
	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/export"
	"github.com/shadowboard/shadowboard/pkg/pipeline"
	"github.com/shadowboard/shadowboard/pkg/render"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

var contentTypes = map[string]string{
	pipeline.FormatPNG:       "image/png",
	pipeline.FormatHTML:      "text/html; charset=utf-8",
	pipeline.FormatTiledHTML: "text/html; charset=utf-8",
	pipeline.FormatPDF:       "application/pdf",
	pipeline.FormatTiledPDF:  "application/pdf",
}

// dimensionsResponse is the body of GET /api/dimensions.
type dimensionsResponse struct {
	Mode          dims.Mode       `json:"mode"`
	Dims          dims.Dimensions `json:"dims"`
	Valid         bool            `json:"valid"`
	Label         string          `json:"label,omitempty"`
	Millimeters   dims.Dimensions `json:"millimeters"`
	Filename      string          `json:"filename,omitempty"`
	Surface       *surfaceSize    `json:"surface,omitempty"`
	Pages         *pageGrid       `json:"pages,omitempty"`
	Profile       string          `json:"profile"`
	TiledPrinting bool            `json:"tiled_printing"`
}

type surfaceSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type pageGrid struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Total int `json:"total"`
}

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

type indexPage struct {
	Version      string
	Modes        []dims.Mode
	Denominators []int
	Profiles     []string
	Profile      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pages.ExecuteTemplate(w, "index.html.tmpl", indexPage{
		Version:      buildinfo.Version,
		Modes:        dims.Modes,
		Denominators: dims.Denominators,
		Profiles:     s.runner.Config.ProfileNames(),
		Profile:      s.runner.Config.Profile,
	})
	if err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, profile, err := s.runner.Config.Active(opts.Profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d := dims.Normalize(opts.Input)
	if err := dims.CheckExtent(d); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := dimensionsResponse{
		Mode:          opts.Input.Mode,
		Dims:          d,
		Valid:         d.Valid(),
		Millimeters:   dims.Dimensions{Width: dims.ToMillimeters(d.Width), Height: dims.ToMillimeters(d.Height)},
		Profile:       name,
		TiledPrinting: profile.TiledPrinting,
	}
	if d.Valid() {
		sw, sh := render.SurfaceSize(d)
		l := tile.Plan(d)
		resp.Label = d.String()
		resp.Filename = export.Filename(d)
		resp.Surface = &surfaceSize{Width: sw, Height: sh}
		resp.Pages = &pageGrid{X: l.PagesX, Y: l.PagesY, Total: l.Total()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	format := pipeline.FormatPDF
	if tiled, _ := strconv.ParseBool(r.URL.Query().Get("tiled")); tiled {
		format = pipeline.FormatTiledPDF
	}
	s.serveArtifact(w, r, format)
}

func (s *Server) handleArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveArtifact(w, r, format)
	}
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, format string) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result.Empty {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data := result.Artifacts[format]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if format == pipeline.FormatPNG {
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(result.Dims)+`"`)
	}
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(data)
}

// optionsFromQuery reads the raw input fields. Field values are passed
// through unparsed; the normalizer decides what they mean.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	mode, err := dims.ParseMode(q.Get("mode"))
	if err != nil {
		return pipeline.Options{}, err
	}
	refresh, _ := strconv.ParseBool(q.Get("refresh"))
	return pipeline.Options{
		Input: dims.Input{
			Mode:   mode,
			Width:  q.Get("width"),
			Height: q.Get("height"),
			WidthFraction: dims.Fraction{
				Whole:       q.Get("width_whole"),
				Numerator:   q.Get("width_num"),
				Denominator: q.Get("width_den"),
			},
			HeightFraction: dims.Fraction{
				Whole:       q.Get("height_whole"),
				Numerator:   q.Get("height_num"),
				Denominator: q.Get("height_den"),
			},
		},
		Profile: q.Get("profile"),
		Refresh: refresh,
	}, nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMode, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidProfile:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusForbidden
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeEmptyTemplate:
		return http.StatusNoContent
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
