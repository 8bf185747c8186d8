package editor_test

import (
	"fmt"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
)

func ExampleState_Apply() {
	s := editor.New(editor.DefaultViewport())
	req := s.Apply(editor.SelectSpace{ID: "room"}).(editor.LoadAnchors)
	s.Apply(editor.AnchorsLoaded{
		SpaceID:    req.SpaceID,
		Generation: req.Generation,
		Anchors:    []editor.Anchor{{ID: "a1", Type: editor.TypeImage}},
	})

	s.Apply(editor.Click{At: editor.Point{X: 400, Y: 300}})
	s.Apply(editor.PointerDown{})
	s.Apply(editor.PointerMove{At: editor.Point{X: 450, Y: 300}})
	s.Apply(editor.PointerUp{})

	a, _ := s.SelectedAnchor()
	fmt.Println(a.ID, a.Position.X, a.Update().Lat)
	// Output: a1 50 0.5
}
