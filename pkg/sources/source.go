// Package sources defines the county parcel sources known to parcelmerge and
// the read-only dataset contract the merge engine consumes.
//
// Each source is identified by an ID and carries a fixed county code that is
// written into the COUNTY_ID discriminator of every translated record.
// County codes follow the Minnesota county numbering:
// http://www.sos.state.mn.us/index.aspx?page=1630
//
// Example usage:
//
//	ds, err := featurestore.Open(path)
//	if err != nil {
//	    return errors.NewSourceUnavailableError(sources.Ramsey.String(), path, err)
//	}
//	defer ds.Close()
//
//	for i := 0; i < ds.Count(); i++ {
//	    f, err := ds.Feature(i)
//	    ...
//	}
package sources

import (
	"fmt"
	"slices"
	"strings"

	"github.com/paulmach/orb"

	"github.com/agentstation/parcelmerge/pkg/schema"
)

// ID represents the identifier of a source dataset.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Known county sources.
const (
	Anoka    ID = "anoka"
	Hennepin ID = "hennepin"
	Ramsey   ID = "ramsey"
)

// Combined names the canonical output dataset in inspection commands.
const Combined ID = "combined"

// codes maps each source to its COUNTY_ID discriminator.
var codes = map[ID]string{
	Anoka:    "2",
	Hennepin: "27",
	Ramsey:   "62",
}

// IDs returns all known county sources.
func IDs() []ID {
	return []ID{
		Anoka,
		Hennepin,
		Ramsey,
	}
}

// DefaultOrder is the processing order of a full merge. Hennepin goes last:
// reading it first was observed to hang the Anoka read that followed.
func DefaultOrder() []ID {
	return []ID{Ramsey, Anoka, Hennepin}
}

// DefaultReference is the source whose schema becomes the canonical schema.
const DefaultReference = Anoka

// IsValid returns true if the ID is one of the known county sources.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Code returns the COUNTY_ID discriminator of the source.
func (id ID) Code() string {
	return codes[id]
}

// ParseID parses a source name case-insensitively.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if !id.IsValid() {
		return "", fmt.Errorf("unknown source %q (known: %v)", s, IDs())
	}
	return id, nil
}

// Feature is one stored parcel: its attribute record and geometry handle.
// The geometry belongs to the feature store; parcelmerge never inspects it.
type Feature struct {
	Record   *schema.Record
	Geometry orb.Geometry
}

// Dataset is a read-only, indexable sequence of features sharing one schema.
type Dataset interface {
	// Name returns a human readable name, usually the file path.
	Name() string

	// Schema returns the dataset's native schema.
	Schema() *schema.Schema

	// Count returns the number of features.
	Count() int

	// Feature returns the feature at storage position i.
	Feature(i int) (Feature, error)

	// Close releases any resources.
	Close() error
}

// Datasets holds opened source datasets by ID.
type Datasets map[ID]Dataset

// Get returns a dataset by ID.
func (d Datasets) Get(id ID) (Dataset, bool) {
	ds, found := d[id]
	return ds, found
}

// Close closes every dataset and returns the first error.
func (d Datasets) Close() error {
	var first error
	for _, ds := range d {
		if err := ds.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
