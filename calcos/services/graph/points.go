package graph

import "math"

// Point is one sampled plot point in coordinate space (already Cartesian;
// polar samples are converted before insertion). A NaN Y marks a sample
// whose evaluation was undefined: it holds its slot in the path order but
// is never drawn.
type Point struct {
	X float64
	Y float64
}

// Gap reports whether the point is a placeholder for an undefined sample.
func (p Point) Gap() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// Stream is an ordered sequence of points. Order is significant: it
// defines how consecutive points are connected when drawing. The deque
// grows as needed; PushFront and PushBack are amortized O(1).
type Stream struct {
	buf   []Point
	head  int
	count int
}

func NewStream() *Stream {
	return &Stream{buf: make([]Point, 64)}
}

func (s *Stream) Len() int { return s.count }

// At returns the i-th point in path order.
func (s *Stream) At(i int) Point {
	if i < 0 || i >= s.count {
		return Point{X: math.NaN(), Y: math.NaN()}
	}
	return s.buf[(s.head+i)%len(s.buf)]
}

// PushBack appends a point to the end of the path.
func (s *Stream) PushBack(p Point) {
	s.grow()
	s.buf[(s.head+s.count)%len(s.buf)] = p
	s.count++
}

// PushFront prepends a point to the start of the path.
func (s *Stream) PushFront(p Point) {
	s.grow()
	s.head--
	if s.head < 0 {
		s.head += len(s.buf)
	}
	s.buf[s.head] = p
	s.count++
}

// Clear empties the stream, keeping its storage.
func (s *Stream) Clear() {
	s.head = 0
	s.count = 0
}

func (s *Stream) grow() {
	if s.count < len(s.buf) {
		return
	}
	next := make([]Point, len(s.buf)*2)
	for i := 0; i < s.count; i++ {
		next[i] = s.At(i)
	}
	s.buf = next
	s.head = 0
}
