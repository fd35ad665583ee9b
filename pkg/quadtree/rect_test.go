package quadtree

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

func TestRect_Contains(t *testing.T) {
	r := NewRect(0, 0, 100, 50)
	tests := []struct {
		name string
		p    geometry.Vector2D
		want bool
	}{
		{"inside", geometry.NewVector(10, 10), true},
		{"top-left corner", geometry.NewVector(0, 0), true},
		{"bottom-right corner", geometry.NewVector(100, 50), true},
		{"right edge", geometry.NewVector(100, 25), true},
		{"left of", geometry.NewVector(-0.001, 25), false},
		{"below", geometry.NewVector(50, 50.001), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.p))
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	assert.True(t, r.Intersects(NewRect(5, 5, 15, 15)), "overlap")
	assert.True(t, r.Intersects(NewRect(10, 0, 20, 10)), "shared edge")
	assert.True(t, r.Intersects(NewRect(2, 2, 3, 3)), "contained")
	assert.True(t, r.Intersects(NewRect(-5, -5, 50, 50)), "containing")
	assert.False(t, r.Intersects(NewRect(10.5, 0, 20, 10)), "right of")
	assert.False(t, r.Intersects(NewRect(0, -10, 10, -0.5)), "above")
}

func TestRect_IntersectsCircle(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	tests := []struct {
		name   string
		c      geometry.Vector2D
		radius float64
		want   bool
	}{
		{"center inside", geometry.NewVector(5, 5), 1, true},
		{"zero radius inside", geometry.NewVector(5, 5), 0, true},
		{"zero radius on edge", geometry.NewVector(10, 3), 0, true},
		{"tangent to right edge", geometry.NewVector(12, 5), 2, true},
		{"short of right edge", geometry.NewVector(12, 5), 1.9, false},
		{"near corner inside reach", geometry.NewVector(13, 14), 5, true},
		{"near corner out of reach", geometry.NewVector(13, 14), 4.9, false},
		{"box reach but not disk reach", geometry.NewVector(12, 12), 2.5, false},
		{"negative radius", geometry.NewVector(5, 5), -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IntersectsCircle(tt.c, tt.radius))
		})
	}
}

func TestRect_Quadrants(t *testing.T) {
	q := NewRect(0, 0, 100, 60).Quadrants()
	assert.Equal(t, NewRect(0, 0, 50, 30), q[0], "top-left")
	assert.Equal(t, NewRect(50, 0, 100, 30), q[1], "top-right")
	assert.Equal(t, NewRect(0, 30, 50, 60), q[2], "bottom-left")
	assert.Equal(t, NewRect(50, 30, 100, 60), q[3], "bottom-right")
}

func TestRectAround(t *testing.T) {
	r := RectAround(geometry.NewVector(5, 5), 2)
	assert.Equal(t, NewRect(3, 3, 7, 7), r)
	assert.Equal(t, geometry.NewVector(5, 5), r.Center())
	assert.Equal(t, 4.0, r.Width())
	assert.Equal(t, 4.0, r.Height())
}
