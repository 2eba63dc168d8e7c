// Package svgload reads meshing input from a small subset of SVG.
//
// The first <polygon> is the contour and every later one is a hole. Each
// <line> and each leg of a <polyline> is a user constraint, and the center of
// each <circle> is an extra point. Transforms and paths are ignored.
package svgload

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	ugolnik "github.com/adfgl/3Ugolnik-sub000"
	"github.com/pkg/errors"
)

func Load(r io.Reader) (ugolnik.Input, error) {
	var in ugolnik.Input
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return in, errors.Wrap(err, "parsing svg")
	}

	polygons := root.FindAll("polygon")
	if len(polygons) == 0 {
		return in, errors.New("no polygon found")
	}
	for i, el := range polygons {
		ring, err := parsePoints(el.Attributes["points"])
		if err != nil {
			return in, errors.Wrapf(err, "polygon %d", i)
		}
		if i == 0 {
			in.Contour = ring
		} else {
			in.Holes = append(in.Holes, ring)
		}
	}

	for i, el := range root.FindAll("line") {
		var c [2]ugolnik.Point
		c[0], err = attrPoint(el, "x1", "y1")
		if err == nil {
			c[1], err = attrPoint(el, "x2", "y2")
		}
		if err != nil {
			return in, errors.Wrapf(err, "line %d", i)
		}
		in.Constraints = append(in.Constraints, c)
	}

	for i, el := range root.FindAll("polyline") {
		chain, err := parsePoints(el.Attributes["points"])
		if err != nil {
			return in, errors.Wrapf(err, "polyline %d", i)
		}
		for j := 1; j < len(chain); j++ {
			in.Constraints = append(in.Constraints, [2]ugolnik.Point{chain[j-1], chain[j]})
		}
	}

	for i, el := range root.FindAll("circle") {
		p, err := attrPoint(el, "cx", "cy")
		if err != nil {
			return in, errors.Wrapf(err, "circle %d", i)
		}
		in.Points = append(in.Points, p)
	}
	return in, nil
}

func LoadFile(path string) (ugolnik.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return ugolnik.Input{}, errors.Wrap(err, "opening svg")
	}
	defer f.Close()
	in, err := Load(f)
	return in, errors.Wrapf(err, "loading %s", path)
}

// parsePoints reads an SVG points list. Coordinates may be separated by
// commas, whitespace or both.
func parsePoints(s string) ([]ugolnik.Point, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in %q", s)
	}
	points := make([]ugolnik.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid x value %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid y value %q", fields[i+1])
		}
		points = append(points, ugolnik.Point{X: x, Y: y})
	}
	return points, nil
}

func attrPoint(el *svgparser.Element, xName, yName string) (ugolnik.Point, error) {
	x, err := strconv.ParseFloat(el.Attributes[xName], 64)
	if err != nil {
		return ugolnik.Point{}, errors.Wrapf(err, "invalid %s", xName)
	}
	y, err := strconv.ParseFloat(el.Attributes[yName], 64)
	if err != nil {
		return ugolnik.Point{}, errors.Wrapf(err, "invalid %s", yName)
	}
	return ugolnik.Point{X: x, Y: y}, nil
}
