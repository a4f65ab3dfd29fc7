package featurestore

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
)

// WGS84 is the ESRI WKT of EPSG:4326, the spatial reference of every
// reprojected county input and of the combined output.
const WGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// SchemaPath returns the schema sidecar of a dataset.
func SchemaPath(path string) string {
	return Sidecar(path, constants.SchemaExt)
}

// ProjectionPath returns the spatial reference sidecar of a dataset.
func ProjectionPath(path string) string {
	return Sidecar(path, constants.ProjectionExt)
}

// schemaFile is the on-disk layout of a schema sidecar.
type schemaFile struct {
	Name   string         `yaml:"name"`
	Fields []schema.Field `yaml:"fields"`
}

// WriteSchema writes s to the schema sidecar of the dataset at path.
func WriteSchema(path string, s *schema.Schema) error {
	data, err := yaml.MarshalWithOptions(schemaFile{Name: s.Name(), Fields: s.Fields()}, yaml.Indent(2))
	if err != nil {
		return errors.WrapParse("yaml", SchemaPath(path), err)
	}
	if err := os.WriteFile(SchemaPath(path), data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", SchemaPath(path), err)
	}
	return nil
}

// ReadSchema reads the schema sidecar of the dataset at path.
func ReadSchema(path string) (*schema.Schema, error) {
	p := SchemaPath(path)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("schema sidecar", p)
		}
		return nil, errors.WrapIO("read", p, err)
	}
	var doc schemaFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", p, err)
	}
	return schema.New(doc.Name, doc.Fields...)
}

// WriteProjection writes the spatial reference sidecar of the dataset at
// path. The WKT is written as given; it is never parsed here.
func WriteProjection(path, wkt string) error {
	if err := os.WriteFile(ProjectionPath(path), []byte(wkt), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", ProjectionPath(path), err)
	}
	return nil
}

// ReadProjection returns the spatial reference WKT stored next to a dataset.
func ReadProjection(path string) (string, error) {
	data, err := os.ReadFile(ProjectionPath(path))
	if err != nil {
		return "", errors.WrapIO("read", ProjectionPath(path), err)
	}
	return string(data), nil
}
