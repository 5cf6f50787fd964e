package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 32

// Request limits shared by the render, inspect and scene-config endpoints
const (
	minWidth   = 8
	maxWidth   = 2000
	maxSamples = 10000
	maxPasses  = 100
	maxDepth   = 500
)

// Server handles web requests for the raytracer
type Server struct {
	cfg       config.Config
	staticDir string
}

// NewServer creates a new web server; cfg supplies the port and request defaults
func NewServer(cfg config.Config) *Server {
	return &Server{cfg: cfg, staticDir: "static/"}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string `json:"scene"`      // Registered scene name (e.g., "cover")
	Width      int    `json:"width"`      // Image width; height follows the scene's aspect ratio
	MaxSamples int    `json:"maxSamples"` // Samples per pixel to reach
	MaxPasses  int    `json:"maxPasses"`  // Maximum number of passes
	MaxDepth   int    `json:"maxDepth"`   // Maximum bounces per ray
	Seed       int64  `json:"seed"`       // Seed for scene layout and sampling
}

// Handler returns the routes served by the web server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the registered scenes grouped for the scene picker
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListAllScenes())
}

// parseCommonSceneParams reads the parameters every scene-based endpoint accepts
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = s.cfg.Scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", s.cfg.Width, minWidth, maxWidth); err != nil {
		return err
	}
	if req.Seed, err = parseInt64Param(query, "seed", s.cfg.Seed); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene at the requested width
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	return scene.New(req.Scene, req.Seed, renderer.CameraConfig{Width: req.Width})
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, config.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sampling := sceneObj.GetSamplingConfig()
	camera := sceneObj.GetCamera()
	response := map[string]interface{}{
		"scene": req.Scene,
		"defaults": map[string]interface{}{
			"width":           camera.Width(),
			"height":          camera.ImageHeight(),
			"samplesPerPixel": sampling.SamplesPerPixel,
			"maxDepth":        sampling.MaxDepth,
			"maxPasses":       s.cfg.Passes,
			"seed":            req.Seed,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minWidth, "max": maxWidth},
			"maxSamples": map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":  map[string]int{"min": 1, "max": maxPasses},
			"maxDepth":   map[string]int{"min": 0, "max": maxDepth},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with the API's common headers
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
