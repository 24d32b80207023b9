// Package web serves a minimal upload interface around the conversion
// pipeline: drop an OSM XML export, get a CityGML model back.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"osmvolume/internal/citygml"
	"osmvolume/internal/config"
	"osmvolume/internal/graph"
	"osmvolume/internal/logger"
	"osmvolume/internal/pipeline"
	"osmvolume/internal/policy"
	"osmvolume/internal/proj"
)

// maxUploadBytes caps uploads at 256 MB; city-scale XML exports stay well
// below this.
const maxUploadBytes = 256 << 20

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>OSM to CityGML converter</title>
</head>
<body>
  <h1>OSM to CityGML converter</h1>
  <p>Upload an OpenStreetMap XML export. The converter keeps only
  <code>building</code> and <code>building:part</code> features, infers
  heights, projects coordinates into a local metric plane, and returns a
  CityGML LOD1 model.</p>
  <form action="/convert" method="post" enctype="multipart/form-data">
    <input name="file" type="file" accept=".osm,.xml" required>
    <button type="submit">Convert</button>
  </form>
</body>
</html>
`

// StartServer runs the HTTP server until it fails.
func StartServer(cfg *config.Config, pol *policy.Policy) error {
	s := &server{
		converter: pipeline.New(cfg, pol),
		log:       logger.Get(),
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.log.Info("Starting converter server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.router())
}

type server struct {
	converter *pipeline.Converter
	log       *zap.Logger
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
	return r
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	fmt.Fprint(w, indexPage)
}

func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing uploaded file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	g, err := graph.FromXML(context.Background(), file)
	if err != nil {
		s.log.Error("Failed to parse upload", zap.Error(err))
		http.Error(w, "Could not parse OSM XML input", http.StatusBadRequest)
		return
	}

	result, err := s.converter.Run(r.Context(), g)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoFeatures) || errors.Is(err, proj.ErrNoCoordinates) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("Conversion failed", zap.Error(err))
		http.Error(w, "Conversion failed", http.StatusInternalServerError)
		return
	}

	name := strings.TrimSuffix(path.Base(header.Filename), path.Ext(header.Filename))
	if name == "" {
		name = "buildings"
	}

	w.Header().Set("Content-Type", "application/gml+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".gml"))
	w.Header().Set("Cache-Control", "no-store")

	if err := citygml.Write(w, result.Solids, result.Origin); err != nil {
		s.log.Error("Failed to write model response", zap.Error(err))
		return
	}

	s.log.Info("Converted upload",
		zap.String("file", header.Filename),
		zap.Int("emitted", result.Stats.Emitted),
		zap.Int("skipped", result.Stats.Skipped))
}
