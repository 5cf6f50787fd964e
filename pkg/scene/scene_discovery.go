package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

const (
	groupBook = "Book Scenes"
	groupTest = "Test Scenes"
)

// SceneInfo describes a registered scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to New
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Seeded      bool   `json:"seeded"`      // Whether the seed changes the layout
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builder func(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene

type registration struct {
	info  SceneInfo
	build builder
}

// unseeded adapts a builder that takes no seed
func unseeded(fn func(...renderer.CameraConfig) *Scene) builder {
	return func(_ int64, cameraOverrides ...renderer.CameraConfig) *Scene {
		return fn(cameraOverrides...)
	}
}

var registry = map[string]registration{
	"cover": {
		info: SceneInfo{
			Description: "Random field of small spheres around glass, diffuse and metal spheres",
			Group:       groupBook,
			Seeded:      true,
		},
		build: NewCoverScene,
	},
	"default": {
		info: SceneInfo{
			Description: "Three spheres on a ground sphere, shallow depth of field",
			Group:       groupBook,
		},
		build: unseeded(NewDefaultScene),
	},
	"hollow-glass": {
		info: SceneInfo{
			Description: "The three-sphere scene through a pinhole camera",
			Group:       groupBook,
		},
		build: unseeded(NewHollowGlassScene),
	},
	"single-sphere": {
		info: SceneInfo{
			Description: "One diffuse unit sphere at the origin",
			Group:       groupTest,
		},
		build: unseeded(NewSingleSphereScene),
	},
}

// New builds the named scene. Seeded scenes are reproducible for a given seed.
func New(name string, seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	reg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return reg.build(seed, cameraOverrides...), nil
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListAllScenes returns the registered scenes grouped by category
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, name := range Names() {
		info := registry[name].info
		info.ID = name
		info.DisplayName = titleCase(name)
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Book scenes first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != groupBook {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if bookGroup, exists := groupMap[groupBook]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: groupBook, Scenes: bookGroup})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response
}

// titleCase converts a scene id to title case
// e.g., "hollow-glass" -> "Hollow Glass"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
