package mapper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"plan-builder/internal/planner/geometry"
)

// ============================================================
// Path Parser
// ============================================================

var commandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath парсит SVG path (команды M, m, L, l, H, h, V, v, Z) в список точек.
// Координаты делятся на scale, чтобы перевести пиксели в единицы сетки.
// Нечисловой токен или непарные координаты у M/L дают ошибку.
func ParsePath(d string, scale float64) ([]geometry.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}
	if scale <= 0 {
		scale = 1
	}

	var points []geometry.Point
	var currentX, currentY float64

	matches := commandRe.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no path commands in %q", d)
	}
	if prefix := strings.TrimSpace(d[:strings.Index(d, matches[0][0])]); prefix != "" {
		return nil, fmt.Errorf("unexpected %q before first command", prefix)
	}

	for _, match := range matches {
		cmd := match[1]
		coords, err := parseCoords(match[2])
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", cmd, err)
		}

		switch cmd {
		case "M", "m", "L", "l":
			if len(coords)%2 != 0 {
				return nil, fmt.Errorf("command %s: odd number of coordinates (%d)", cmd, len(coords))
			}
		case "Z", "z":
			if len(coords) != 0 {
				return nil, fmt.Errorf("command %s takes no coordinates", cmd)
			}
		}

		switch cmd {
		case "M", "L":
			// Неявные L после M: пары координат идут подряд.
			for i := 0; i+1 < len(coords); i += 2 {
				currentX, currentY = coords[i], coords[i+1]
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				currentX += coords[i]
				currentY += coords[i+1]
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "H":
			for _, c := range coords {
				currentX = c
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "h":
			for _, c := range coords {
				currentX += c
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "V":
			for _, c := range coords {
				currentY = c
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "v":
			for _, c := range coords {
				currentY += c
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "Z", "z":
			// Замыкание подразумевается: полигон и так циклический.
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no coordinates in %q", d)
	}

	for i := range points {
		points[i] = geometry.Point{X: points[i].X / scale, Y: points[i].Y / scale}
	}
	return points, nil
}

// ParseOutline парсит path и убирает дубль замыкания, если последняя точка
// совпадает с первой.
func ParseOutline(d string, scale float64) ([]geometry.Point, error) {
	points, err := ParsePath(d, scale)
	if err != nil {
		return nil, err
	}
	if len(points) > 1 {
		first := points[0]
		last := points[len(points)-1]
		if first.X == last.X && first.Y == last.Y {
			points = points[:len(points)-1]
		}
	}
	return points, nil
}

func parseCoords(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	// Разделитель: запятая или пробел
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", part)
		}
		coords = append(coords, val)
	}

	return coords, nil
}
