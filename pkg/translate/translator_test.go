package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

func hennepinRecord(t *testing.T) *schema.Record {
	t.Helper()
	return foreign(t, textFields(
		"PID", "HOUSE_NO", "FRAC_HOUSE", "STREET_NM", "MUNIC_NM", "Shape_area",
		"PARCEL_ARE", "HMSTD_CD1_", "MKT_VAL_TO", "BUILD_YR", "SALE_DATE", "COUNTY_ID", "ZIP4",
	), map[string]schema.Value{
		"PID":        schema.Text("0102924110001"),
		"HOUSE_NO":   schema.Text("3537"),
		"FRAC_HOUSE": schema.Text("1/2"),
		"STREET_NM":  schema.Text("ZENITH AVE S"),
		"MUNIC_NM":   schema.Text("MINNEAPOLIS"),
		"Shape_area": schema.Text("4046.86"),
		"PARCEL_ARE": schema.Text("not measured"),
		"HMSTD_CD1_": schema.Text("HOMESTEAD"),
		"MKT_VAL_TO": schema.Text("285000"),
		"BUILD_YR":   schema.Text("1925"),
		"SALE_DATE":  schema.Text("20150714"),
		"COUNTY_ID":  schema.Text("99"),
		"ZIP4":       schema.Text("1234"),
	})
}

func TestForDispatch(t *testing.T) {
	canonical := MetroSchema()
	for _, id := range sources.IDs() {
		tr, err := For(id, canonical)
		require.NoError(t, err, id)
		assert.Equal(t, id, tr.Source())
	}

	tr, err := For(sources.Anoka, canonical)
	require.NoError(t, err)
	assert.IsType(t, &Identity{}, tr)

	_, err = For(sources.ID("dakota"), canonical)
	assert.True(t, errors.IsNotFound(err))
}

func TestHennepinTranslation(t *testing.T) {
	canonical := MetroSchema()
	tr, err := For(sources.Hennepin, canonical)
	require.NoError(t, err)

	out := tr.Translate(hennepinRecord(t))
	require.Same(t, canonical, out.Schema())

	assert.Equal(t, "27", out.Get("COUNTY_ID").String())
	assert.Equal(t, "0102924110001", out.Get("PIN").String())
	assert.Equal(t, "3537 1/2", out.Get("BLDG_NUM").String())
	assert.Equal(t, "Y", out.Get("HOMESTEAD").String())
	assert.Equal(t, "2015-07-01", out.Get("SALE_DATE").String())
	assert.Equal(t, schema.KindDate, out.Get("SALE_DATE").Kind())

	acres, ok := out.Get("ACRES_POLY").Float()
	require.True(t, ok)
	assert.InDelta(t, 1.0, acres, 1e-3)
	assert.True(t, out.Get("ACRES_DEED").IsNull())

	emv, ok := out.Get("EMV_TOTAL").Float()
	require.True(t, ok)
	assert.Equal(t, 285000.0, emv)

	year, ok := out.Get("YEAR_BUILT").Int()
	require.True(t, ok)
	assert.Equal(t, int64(1925), year)

	// ZIP4 exists in the foreign record but has no rule.
	assert.True(t, out.Get("ZIP4").IsNull())
}

func TestUnmappedFieldsAreNull(t *testing.T) {
	canonical := MetroSchema()
	tables := map[sources.ID][]Rule{
		sources.Hennepin: HennepinRules(),
		sources.Ramsey:   RamseyRules(),
	}
	for id, rules := range tables {
		t.Run(id.String(), func(t *testing.T) {
			tr, err := NewMapping(id, canonical, rules)
			require.NoError(t, err)

			mapped := map[string]bool{DiscriminatorField: true}
			for _, r := range rules {
				mapped[r.Target] = true
			}

			out := tr.Translate(hennepinRecord(t))
			for _, f := range canonical.Fields() {
				if !mapped[f.Name] {
					assert.True(t, out.Get(f.Name).IsNull(), "%s should be null, got %v", f.Name, out.Get(f.Name))
				}
			}
		})
	}
}

func TestDiscriminatorOverridesForeignValue(t *testing.T) {
	canonical := MetroSchema()
	for _, id := range sources.IDs() {
		tr, err := For(id, canonical)
		require.NoError(t, err)

		rec := schema.NewRecord(canonical)
		require.NoError(t, rec.Set(DiscriminatorField, schema.Text("99")))
		out := tr.Translate(rec)
		assert.Equal(t, id.Code(), out.Get(DiscriminatorField).String(), id)
	}
}

func TestRamseyTranslation(t *testing.T) {
	canonical := MetroSchema()
	tr, err := For(sources.Ramsey, canonical)
	require.NoError(t, err)

	src := foreign(t, []schema.Field{
		{Name: "ParcelID", Type: schema.String, Width: 17},
		{Name: "EMVTotal", Type: schema.String, Width: 19},
		{Name: "YearBuilt", Type: schema.String, Width: 4},
		{Name: "LastSale", Type: schema.Date, Width: 10},
		{Name: "HmstdYN", Type: schema.String, Width: 1},
	}, map[string]schema.Value{
		"ParcelID":  schema.Text("062922110001"),
		"EMVTotal":  schema.Text("bad"),
		"YearBuilt": schema.Text("1962"),
		"LastSale":  schema.DateOf(2009, 5, 14),
		"HmstdYN":   schema.Text("N"),
	})

	out := tr.Translate(src)
	assert.Equal(t, "62", out.Get("COUNTY_ID").String())
	assert.Equal(t, "062922110001", out.Get("PIN").String())
	assert.True(t, out.Get("EMV_TOTAL").IsNull(), "unparseable numeric copy degrades to null")
	assert.True(t, schema.Equal(schema.Int(1962), out.Get("YEAR_BUILT")))
	assert.Equal(t, "2009-05-14", out.Get("SALE_DATE").String())
	assert.Equal(t, "N", out.Get("HOMESTEAD").String())
}

func TestIdentityTranslation(t *testing.T) {
	canonical := MetroSchema()
	tr, err := NewIdentity(sources.Anoka, canonical)
	require.NoError(t, err)

	src := schema.NewRecord(canonical.Rename("anoka-parcels"))
	require.NoError(t, src.Set("PIN", schema.Text("R01-31-24-11-0001")))
	require.NoError(t, src.Set("EMV_TOTAL", schema.Float(199000)))
	require.NoError(t, src.Set("COUNTY_ID", schema.Text("002")))

	out := tr.Translate(src)
	assert.Equal(t, "2", out.Get("COUNTY_ID").String())
	assert.Equal(t, "R01-31-24-11-0001", out.Get("PIN").String())
	assert.True(t, schema.Equal(schema.Float(199000), out.Get("EMV_TOTAL")))
	assert.True(t, out.Get("CITY").IsNull())
}

func TestTranslateNilRecord(t *testing.T) {
	canonical := MetroSchema()
	for _, id := range sources.IDs() {
		tr, err := For(id, canonical)
		require.NoError(t, err)
		out := tr.Translate(nil)
		assert.Equal(t, id.Code(), out.Get(DiscriminatorField).String())
	}
}

func TestNewMappingValidation(t *testing.T) {
	canonical := MetroSchema()

	_, err := NewMapping(sources.Hennepin, canonical, []Rule{Copy("NOT_A_FIELD", "X")})
	assert.True(t, errors.IsValidationError(err))

	_, err = NewMapping(sources.Hennepin, canonical, []Rule{{Target: "PIN"}})
	assert.True(t, errors.IsValidationError(err))

	noDisc := schema.MustNew("bare", schema.Field{Name: "PIN", Type: schema.String, Width: 17})
	_, err = NewMapping(sources.Hennepin, noDisc, nil)
	assert.True(t, errors.IsNotFound(err))

	_, err = NewIdentity(sources.Combined, canonical)
	assert.True(t, errors.IsValidationError(err))
}

func TestMetroSchemaCoversCountyTables(t *testing.T) {
	canonical := MetroSchema()
	assert.Equal(t, MetroLayer, canonical.Name())
	assert.Equal(t, DiscriminatorField, canonical.Field(0).Name)
	for _, r := range append(HennepinRules(), RamseyRules()...) {
		assert.True(t, canonical.Has(r.Target), r.Target)
	}
}
