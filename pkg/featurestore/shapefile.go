package featurestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Shapefile reads an ESRI shapefile. Attributes are random access through
// the .dbf table; shapes are read forward, so sequential access is cheap and
// stepping backwards reopens the file.
type Shapefile struct {
	path   string
	reader *shp.Reader
	fields []shp.Field
	schema *schema.Schema
	count  int

	pos   int
	shape shp.Shape
}

// OpenShapefile opens a shapefile and derives its schema from the .dbf
// header. The attribute table is required and must declare at least one
// field.
func OpenShapefile(path string) (*Shapefile, error) {
	table, err := attributeTable(path)
	if err != nil {
		return nil, err
	}
	d := &Shapefile{path: path}
	if err := d.open(); err != nil {
		return nil, err
	}
	d.fields = d.reader.Fields()
	d.count = d.reader.AttributeCount()
	if len(d.fields) == 0 {
		_ = d.Close()
		return nil, errors.NewParseError("dbf", table, "attribute table declares no fields", nil)
	}

	fields := make([]schema.Field, len(d.fields))
	for i, f := range d.fields {
		fields[i] = schema.Field{
			Name:      fieldName(f),
			Type:      fieldType(f),
			Width:     int(f.Size),
			Precision: int(f.Precision),
		}
	}
	s, err := schema.New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), fields...)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	d.schema = s
	return d, nil
}

// attributeTable returns the path of the .dbf next to a .shp. The shp
// reader treats a missing table as an empty one.
func attributeTable(path string) (string, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".dbf", ".DBF"} {
		table := base + ext
		_, err := os.Stat(table)
		if err == nil {
			return table, nil
		}
		if !os.IsNotExist(err) {
			return "", errors.WrapIO("stat", table, err)
		}
	}
	return "", errors.WrapIO("open", base+".dbf", errors.NewNotFoundError("attribute table", base+".dbf"))
}

func (d *Shapefile) open() error {
	r, err := shp.Open(d.path)
	if err != nil {
		return errors.WrapIO("open", d.path, err)
	}
	d.reader = r
	d.pos = -1
	d.shape = nil
	return nil
}

// Name returns the file path.
func (d *Shapefile) Name() string { return d.path }

// Schema returns the schema described by the .dbf header.
func (d *Shapefile) Schema() *schema.Schema { return d.schema }

// Count returns the number of records in the attribute table.
func (d *Shapefile) Count() int { return d.count }

// Feature returns the feature at position i.
func (d *Shapefile) Feature(i int) (sources.Feature, error) {
	if d.reader == nil {
		return sources.Feature{}, errors.ErrClosed
	}
	if i < 0 || i >= d.count {
		return sources.Feature{}, errors.NewValidationError("index", i, "out of range")
	}
	if i < d.pos {
		_ = d.reader.Close()
		if err := d.open(); err != nil {
			return sources.Feature{}, err
		}
	}
	for d.pos < i {
		if !d.reader.Next() {
			return sources.Feature{}, errors.NewParseError("shapefile", d.path,
				fmt.Sprintf("shape %d missing, table has %d records", i, d.count), nil)
		}
		d.pos, d.shape = d.reader.Shape()
	}

	geom, err := toGeometry(d.shape)
	if err != nil {
		return sources.Feature{}, errors.NewMergeError(d.path, i, err)
	}

	rec := schema.NewRecord(d.schema)
	for j := range d.fields {
		raw := strings.TrimSpace(strings.Trim(d.reader.ReadAttribute(i, j), "\x00"))
		if raw == "" {
			continue
		}
		rec.SetAt(j, schema.Text(raw))
	}
	return sources.Feature{Record: rec, Geometry: geom}, nil
}

// Close releases the file handles.
func (d *Shapefile) Close() error {
	if d.reader == nil {
		return nil
	}
	err := d.reader.Close()
	d.reader = nil
	return err
}

func fieldName(f shp.Field) string {
	return strings.TrimRight(string(f.Name[:]), "\x00 ")
}

// fieldType follows the usual dBase reading: whole numbers narrower than ten
// digits are integers, other numerics are reals.
func fieldType(f shp.Field) schema.FieldType {
	switch f.Fieldtype {
	case 'N':
		if f.Precision == 0 && f.Size < 10 {
			return schema.Integer
		}
		return schema.Real
	case 'F':
		return schema.Real
	case 'D':
		return schema.Date
	default:
		return schema.String
	}
}

// toGeometry converts a shape into an orb geometry. Outer polygon rings are
// clockwise in shapefiles; a counter-clockwise ring is a hole in the
// preceding outer ring.
func toGeometry(s shp.Shape) (orb.Geometry, error) {
	switch g := s.(type) {
	case nil, *shp.Null:
		return nil, nil
	case *shp.Point:
		return orb.Point{g.X, g.Y}, nil
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, len(g.Points))
		for i, p := range g.Points {
			mp[i] = orb.Point{p.X, p.Y}
		}
		return mp, nil
	case *shp.PolyLine:
		parts := split(g.Parts, g.Points)
		if len(parts) == 1 {
			return orb.LineString(parts[0]), nil
		}
		mls := make(orb.MultiLineString, len(parts))
		for i, p := range parts {
			mls[i] = orb.LineString(p)
		}
		return mls, nil
	case *shp.Polygon:
		var mp orb.MultiPolygon
		for _, p := range split(g.Parts, g.Points) {
			ring := orb.Ring(p)
			if ring.Orientation() == orb.CCW && len(mp) > 0 {
				mp[len(mp)-1] = append(mp[len(mp)-1], ring)
				continue
			}
			mp = append(mp, orb.Polygon{ring})
		}
		switch len(mp) {
		case 0:
			return nil, nil
		case 1:
			return mp[0], nil
		default:
			return mp, nil
		}
	default:
		return nil, fmt.Errorf("shape %T: %w", s, errors.ErrUnsupported)
	}
}

func split(parts []int32, points []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for k, start := range parts {
		end := len(points)
		if k+1 < len(parts) {
			end = int(parts[k+1])
		}
		if int(start) >= end || end > len(points) {
			continue
		}
		part := make([]orb.Point, 0, end-int(start))
		for _, p := range points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		out = append(out, part)
	}
	return out
}
