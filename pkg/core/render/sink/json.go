package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/penstroke/pkg/core/layout"
	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/synth"
)

type jsonOutput struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Paths  []path.Descriptor `json:"paths"`
}

// RenderJSON exports res as a pretty-printed JSON document:
//
//	{"width": 1000, "height": 240, "paths": [{"path": "M0,0 M...", "color": "black", "width": 2}]}
func RenderJSON(res *synth.Result) ([]byte, error) {
	paths := res.Paths
	if paths == nil {
		paths = []path.Descriptor{}
	}
	return json.MarshalIndent(jsonOutput{
		Width:  res.Canvas.Width,
		Height: res.Canvas.Height,
		Paths:  paths,
	}, "", "  ")
}

// ReadJSON parses a document written by [RenderJSON]. Every path is checked
// to be a valid command string.
func ReadJSON(data []byte) (*synth.Result, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode handwriting document: %w", err)
	}
	for i, p := range out.Paths {
		if _, err := path.Parse(p.Path); err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
	}
	if out.Paths == nil {
		out.Paths = []path.Descriptor{}
	}
	return &synth.Result{
		Canvas: layout.Canvas{Width: out.Width, Height: out.Height},
		Paths:  out.Paths,
	}, nil
}
