package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/pipeline"
)

// Query prefixes for chart options and data-source parameters.
const (
	optionPrefix = "option."
	paramPrefix  = "param."
)

var contentTypes = map[string]string{
	export.FormatSVG:  "image/svg+xml",
	export.FormatHTML: "text/html; charset=utf-8",
	export.FormatPNG:  "image/png",
	export.FormatPDF:  "application/pdf",
}

// renderRequest is the POST /render body. Data is decoded with key order
// preserved, like a fetched response.
type renderRequest struct {
	pipeline.Options
	Data json.RawMessage `json:"data,omitempty"`
}

func (s *Server) handleRenderQuery(w http.ResponseWriter, r *http.Request) {
	opts, err := parseQuery(r.URL.RawQuery)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, opts)
}

func (s *Server) handleRenderBody(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var req renderRequest
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err))
		return
	}
	opts := req.Options
	if data := bytes.TrimSpace(req.Data); len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		v, err := dataset.DecodeBytes(data)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidData, err, "invalid data: %v", err))
			return
		}
		opts.Data = v
	}
	s.render(w, r, opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Logger = loggerFrom(r.Context(), s.Logger)
	if opts.Format == "" {
		opts.Format = pipeline.DefaultFormat
	}

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[opts.Format])
	if res.Type != "" {
		w.Header().Set("X-Chart-Type", res.Type)
	}
	if res.CacheInfo.ArtifactHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// parseQuery reads render options from a raw query string. Parameters keep
// the order they appear in, which is the order they are sent upstream.
func parseQuery(raw string) (pipeline.Options, error) {
	var opts pipeline.Options
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid query parameter %q", k)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid value for %s", key)
		}

		switch {
		case strings.HasPrefix(key, optionPrefix):
			if opts.Options == nil {
				opts.Options = make(map[string]any)
			}
			opts.Options[strings.TrimPrefix(key, optionPrefix)] = value
		case strings.HasPrefix(key, paramPrefix):
			opts.Params = append(opts.Params, pipeline.Param{Key: strings.TrimPrefix(key, paramPrefix), Value: value})
		default:
			if err := setField(&opts, key, value); err != nil {
				return opts, err
			}
		}
	}
	return opts, nil
}

func setField(opts *pipeline.Options, key, value string) error {
	var err error
	switch key {
	case "source":
		opts.Source = value
	case "type":
		opts.Type = value
	case "view":
		opts.View = value
	case "format":
		opts.Format = value
	case "title":
		opts.Title = value
	case "background":
		opts.Background = value
	case "width":
		opts.Width, err = strconv.ParseFloat(value, 64)
	case "height":
		opts.Height, err = strconv.ParseFloat(value, 64)
	case "tooltips":
		opts.Tooltips, err = strconv.ParseBool(value)
	case "refresh":
		opts.Refresh, err = strconv.ParseBool(value)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown query parameter: %s", key)
	}
	if err != nil {
		return errors.New(errors.ErrCodeInvalidOption, "invalid value for %s: %q", key, value)
	}
	return nil
}
