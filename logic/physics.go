package logic

import "math"

// Distance between two points.
func Distance(p1, p2 Vector2) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CirclesOverlap checks two circles for contact without taking a sqrt.
func CirclesOverlap(a Vector2, ra float64, b Vector2, rb float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	r := ra + rb
	return dx*dx+dy*dy < r*r
}
