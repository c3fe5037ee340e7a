package geometry

import (
	"math"
)

// ============================================================
// Geometry primitives
// ============================================================

// Point: координата в единицах сетки (1 единица = 2 фута).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

const (
	// DrawSnap: шаг привязки точек стен (точность 1 фут).
	DrawSnap = 0.5
	// BlockSnap: шаг привязки при установке и перемещении блоков.
	BlockSnap = 1.0
	// CloseThreshold: расстояние по каждой оси, ближе которого точка замыкает полигон.
	CloseThreshold = 0.5
	// MaxCoordinate ограничивает координаты сетки по модулю.
	MaxCoordinate = 100000
)

const epsilon = 1e-9

// InRange сообщает, что координата конечна и не выходит за MaxCoordinate.
func InRange(v float64) bool {
	return !math.IsNaN(v) && v >= -MaxCoordinate && v <= MaxCoordinate
}

// ============================================================
// Area & snapping
// ============================================================

// Area считает площадь полигона по формуле шнурков с циклическими индексами.
// Меньше 3 точек: вырожденный полигон с нулевой площадью.
func Area(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i].X * points[j].Y
		sum -= points[j].X * points[i].Y
	}
	return math.Abs(sum / 2)
}

// Snap округляет value до ближайшего кратного increment.
func Snap(value, increment float64) float64 {
	if increment <= 0 {
		return value
	}
	return math.Round(value/increment) * increment
}

// SnapPoint привязывает обе координаты с одним шагом.
func SnapPoint(p Point, increment float64) Point {
	return Point{X: Snap(p.X, increment), Y: Snap(p.Y, increment)}
}

// IsNearStart проверяет квадрат по осям, а не евклидово расстояние: каждая
// разница должна быть меньше threshold.
func IsNearStart(candidate, start Point, threshold float64) bool {
	dx := math.Abs(candidate.X - start.X)
	dy := math.Abs(candidate.Y - start.Y)
	return dx < threshold && dy < threshold
}

// ============================================================
// Polygon validity
// ============================================================

// IsSimple сообщает, что никакие два несмежных ребра замкнутого полигона не
// касаются и не пересекаются. Полигоны меньше чем из 4 точек всегда простые.
func IsSimple(points []Point) bool {
	n := len(points)
	if n < 4 {
		return true
	}

	for i := 0; i < n; i++ {
		a1, a2 := points[i], points[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// смежные рёбра делят вершину
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := points[j], points[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 && o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 {
		return true
	}

	if o1 == 0 && onSegment(p1, q1, p2) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, p2) {
		return true
	}
	if o3 == 0 && onSegment(q1, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(q1, p2, q2) {
		return true
	}
	return false
}

// orientation возвращает 0 для коллинеарных точек, 1 по часовой, 2 против.
func orientation(a, b, c Point) int {
	v := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	switch {
	case math.Abs(v) < epsilon:
		return 0
	case v > 0:
		return 1
	default:
		return 2
	}
}

// onSegment считает a, b, c коллинеарными и проверяет, что b лежит на a-c.
func onSegment(a, b, c Point) bool {
	minX, maxX := minMax(a.X, c.X)
	minY, maxY := minMax(a.Y, c.Y)
	return b.X <= maxX+epsilon && b.X >= minX-epsilon &&
		b.Y <= maxY+epsilon && b.Y >= minY-epsilon
}

// ============================================================
// Helpers
// ============================================================

// Bounds возвращает углы ограничивающего прямоугольника.
func Bounds(points []Point) (min, max Point, ok bool) {
	if len(points) == 0 {
		return Point{}, Point{}, false
	}

	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max, true
}

// Centroid возвращает среднее положение вершин (для подписей).
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	return Point{X: sumX / float64(len(points)), Y: sumY / float64(len(points))}
}

func minMax(a, b float64) (float64, float64) {
	if a <= b {
		return a, b
	}
	return b, a
}
