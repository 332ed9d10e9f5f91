package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/statboard/pkg/buildinfo"
	"github.com/matzehuels/statboard/pkg/dashboard"
	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/f1"
	"github.com/matzehuels/statboard/pkg/nfl"
	"github.com/matzehuels/statboard/pkg/render"
)

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Views)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewOptions(chi.URLParam(r, "view"), r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.Logger

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", render.ContentType(format))
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleF1Choices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := f1Filter(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.Config.Data.F1 == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no f1 dataset configured"))
		return
	}
	df, err := s.Runner.Load(r.Context(), dashboard.DatasetF1, s.Config.Data.F1, s.Config.Data.Table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if filter, err = dashboard.ResolveF1Filter(df, filter); err != nil {
		s.writeError(w, r, err)
		return
	}
	choices, err := f1.Options(df, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, choices)
}

func (s *Server) handleNFLTeams(w http.ResponseWriter, r *http.Request) {
	if s.Config.Data.EPA == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no EPA dataset configured"))
		return
	}
	df, err := s.Runner.Load(r.Context(), dashboard.DatasetEPA, s.Config.Data.EPA, s.Config.Data.Table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nfl.Teams(df))
}

// viewOptions builds the run options of view from query parameters on top
// of the configured datasets.
func (s *Server) viewOptions(view string, q url.Values) (dashboard.Options, error) {
	opts := dashboard.Options{
		View:         view,
		F1Path:       s.Config.Data.F1,
		EPAPath:      s.Config.Data.EPA,
		MatchupsPath: s.Config.Data.Matchups,
		Table:        s.Config.Data.Table,
	}
	if err := dashboard.ValidateView(view); err != nil {
		return opts, err
	}

	format := q.Get("format")
	if format == "" {
		format = dashboard.DefaultFormat
	}
	opts.Formats = []string{format}

	ints := map[string]*int{
		"season": &opts.Season,
		"week":   &opts.Week,
		"width":  &opts.Width,
		"height": &opts.Height,
		"top":    &opts.TopN,
	}
	for name, dst := range ints {
		if err := parseInt(q, name, dst); err != nil {
			return opts, err
		}
	}
	bools := map[string]*bool{
		"upright": &opts.Upright,
		"refresh": &opts.Refresh,
	}
	for name, dst := range bools {
		if err := parseBool(q, name, dst); err != nil {
			return opts, err
		}
	}
	showLabels := true
	if err := parseBool(q, "labels", &showLabels); err != nil {
		return opts, err
	}
	opts.HideLabels = !showLabels

	if name := q.Get("preset"); name != "" {
		cfg, err := s.Config.LabelPreset(name)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "preset")
		}
		opts.Labels = &cfg
	}

	if opts.Dataset() == dashboard.DatasetF1 {
		filter, err := f1Filter(q)
		if err != nil {
			return opts, err
		}
		opts.Filter = filter
	} else {
		opts.Team = q.Get("team")
	}
	return opts, nil
}

func f1Filter(q url.Values) (f1.Filter, error) {
	f := f1.Filter{
		GrandsPrix: q["grand_prix"],
		Teams:      q["team"],
		Drivers:    q["driver"],
	}
	if err := parseInt(q, "season_from", &f.SeasonFrom); err != nil {
		return f, err
	}
	if err := parseInt(q, "season_to", &f.SeasonTo); err != nil {
		return f, err
	}
	return f, nil
}

func parseInt(q url.Values, name string, dst *int) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	*dst = n
	return nil
}

func parseBool(q url.Values, name string, dst *bool) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be true or false, got %q", name, v)
	}
	*dst = b
	return nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err), errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
