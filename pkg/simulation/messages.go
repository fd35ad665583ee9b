package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/flock"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages exchanged with the FlockActor are plain protobuf Structs,
// told apart by their "kind" field.
const (
	kindTick  = "tick"
	kindReset = "reset"
)

// TickRequest asks the flock for one step in a world of Width x Height.
type TickRequest struct {
	Width, Height float64
	Params        flock.Params
	ShowPartition bool
}

// ResetRequest asks the flock to start over with Size random boids.
type ResetRequest struct {
	Size          int
	Width, Height float64
}

// NewTick builds the message driving one simulation step.
func NewTick(r TickRequest) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"kind":             structpb.NewStringValue(kindTick),
		"width":            structpb.NewNumberValue(r.Width),
		"height":           structpb.NewNumberValue(r.Height),
		"showPartition":    structpb.NewBoolValue(r.ShowPartition),
		"alignmentRadius":  structpb.NewNumberValue(r.Params.AlignmentRadius),
		"cohesionRadius":   structpb.NewNumberValue(r.Params.CohesionRadius),
		"separationRadius": structpb.NewNumberValue(r.Params.SeparationRadius),
		"alignmentForce":   structpb.NewNumberValue(r.Params.AlignmentForce),
		"cohesionForce":    structpb.NewNumberValue(r.Params.CohesionForce),
		"separationForce":  structpb.NewNumberValue(r.Params.SeparationForce),
	}}
}

// NewReset builds the message replacing the whole flock.
func NewReset(r ResetRequest) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"kind":   structpb.NewStringValue(kindReset),
		"size":   structpb.NewNumberValue(float64(r.Size)),
		"width":  structpb.NewNumberValue(r.Width),
		"height": structpb.NewNumberValue(r.Height),
	}}
}

func messageKind(msg *structpb.Struct) string {
	return msg.GetFields()["kind"].GetStringValue()
}

func decodeTick(msg *structpb.Struct) (TickRequest, error) {
	f := msg.GetFields()
	r := TickRequest{
		Width:         f["width"].GetNumberValue(),
		Height:        f["height"].GetNumberValue(),
		ShowPartition: f["showPartition"].GetBoolValue(),
		Params: flock.Params{
			AlignmentRadius:  f["alignmentRadius"].GetNumberValue(),
			CohesionRadius:   f["cohesionRadius"].GetNumberValue(),
			SeparationRadius: f["separationRadius"].GetNumberValue(),
			AlignmentForce:   f["alignmentForce"].GetNumberValue(),
			CohesionForce:    f["cohesionForce"].GetNumberValue(),
			SeparationForce:  f["separationForce"].GetNumberValue(),
		},
	}
	if r.Width <= 0 || r.Height <= 0 {
		return r, fmt.Errorf("invalid world size %vx%v", r.Width, r.Height)
	}
	return r, nil
}

func decodeReset(msg *structpb.Struct) (ResetRequest, error) {
	f := msg.GetFields()
	r := ResetRequest{
		Size:   int(f["size"].GetNumberValue()),
		Width:  f["width"].GetNumberValue(),
		Height: f["height"].GetNumberValue(),
	}
	if r.Size < 0 {
		return r, fmt.Errorf("invalid flock size %d", r.Size)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return r, fmt.Errorf("invalid world size %vx%v", r.Width, r.Height)
	}
	return r, nil
}
