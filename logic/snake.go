package logic

import "math"

const (
	// BaseSize is the head size a snake spawns with.
	BaseSize = 20.0
	// MinBodyLen is the floor on the body chain length.
	MinBodyLen = 10
	// spawnSegmentGap is the spacing used when pre-populating a fresh chain.
	spawnSegmentGap = 5.0
)

// Snake is the physical state of one player: head position, heading angle,
// scalar size and the head-first body chain.
type Snake struct {
	X, Y  float64
	Angle float64
	Size  float64
	Body  []Vector2
}

// NewSnake spawns a snake at (x, y) with its chain laid out backwards
// along the heading, the way the client reconstructs unknown bodies.
func NewSnake(x, y, angle float64) *Snake {
	s := &Snake{X: x, Y: y, Angle: angle, Size: BaseSize}
	n := s.BodyLength()
	s.Body = make([]Vector2, 0, n)
	for i := 0; i < n; i++ {
		s.Body = append(s.Body, Vector2{
			X: x - math.Cos(angle)*float64(i)*spawnSegmentGap,
			Y: y - math.Sin(angle)*float64(i)*spawnSegmentGap,
		})
	}
	return s
}

// BodyLength is the size-derived chain length: max(10, floor(size/2)).
func (s *Snake) BodyLength() int {
	n := int(s.Size / 2)
	if n < MinBodyLen {
		n = MinBodyLen
	}
	return n
}

// Speed slows larger snakes down, floored at 1.5 units per tick.
func (s *Snake) Speed() float64 {
	v := 3.0 - (s.Size-BaseSize)/100.0
	if v < 1.5 {
		v = 1.5
	}
	return v
}

// Radius is the head collision radius.
func (s *Snake) Radius() float64 {
	return s.Size / 2
}

// Advance moves the head one tick along the current heading, bounces off
// the world edge at ±half, and drags the chain behind the head.
func (s *Snake) Advance(half float64) {
	v := s.Speed()
	s.X += math.Cos(s.Angle) * v
	s.Y += math.Sin(s.Angle) * v
	s.bounce(half)
	s.follow()
}

// bounce clamps the head to the playfield and mirrors the heading about
// the crossed axis. Snakes reflect at walls, they never wrap or die there.
func (s *Snake) bounce(half float64) {
	if s.X < -half {
		s.X = -half
		s.Angle = math.Pi - s.Angle
	} else if s.X > half {
		s.X = half
		s.Angle = math.Pi - s.Angle
	}
	if s.Y < -half {
		s.Y = -half
		s.Angle = -s.Angle
	} else if s.Y > half {
		s.Y = half
		s.Angle = -s.Angle
	}
}

// follow pushes the head onto the chain, normalizes the chain to the
// size-derived length, then pulls each segment toward its predecessor when
// the gap exceeds bodyLength/chainLength. Segments trail like a rope
// instead of teleporting.
func (s *Snake) follow() {
	s.Body = append([]Vector2{{X: s.X, Y: s.Y}}, s.Body...)
	n := s.BodyLength()
	if len(s.Body) > n {
		s.Body = s.Body[:n]
	}
	for len(s.Body) < n {
		s.Body = append(s.Body, s.Body[len(s.Body)-1])
	}

	spacing := float64(n) / float64(len(s.Body))
	for i := 1; i < len(s.Body); i++ {
		dx := s.Body[i-1].X - s.Body[i].X
		dy := s.Body[i-1].Y - s.Body[i].Y
		d := math.Hypot(dx, dy)
		if d > spacing {
			// Close half the excess per tick so the chain trails
			// smoothly instead of snapping onto the head.
			t := (d - spacing) / d * 0.5
			s.Body[i].X += dx * t
			s.Body[i].Y += dy * t
		}
	}
}

// SegmentRadius tapers the body collision radius toward the tail, matching
// how the client renders trailing segments.
func (s *Snake) SegmentRadius(i int) float64 {
	progress := float64(i) / float64(len(s.Body))
	return s.Radius() * (1 - progress*0.5)
}
