package model

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Attribute names a per-vertex attribute. The value is the attribute name the shader program must declare.
type Attribute string

const (
	AttributePosition Attribute = "position"
	AttributeNormal   Attribute = "normal"
	AttributeColor    Attribute = "color"
	AttributeTexCoord Attribute = "texture_coord"
)

// BoundingBox is an axis-aligned box given by its minimum and maximum corners.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// ImportedModel is a model file after import and before any GPU upload.
type ImportedModel struct {
	// Name is the file path the model was loaded from.
	Name string

	// Mesh is every kept node merged into one normalised mesh.
	Mesh *Mesh

	// Nodes lists the node names that contributed geometry, in merge order.
	Nodes []string

	// BaseColor is the decoded base-color texture, nil unless it was requested.
	BaseColor *common.TextureStagingData
}
