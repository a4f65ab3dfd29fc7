package translate

import "github.com/agentstation/parcelmerge/pkg/schema"

// MetroLayer is the layer name of the combined dataset.
const MetroLayer = "metro_parcels"

// MetroFields returns the field layout of the metro parcel attribute
// standard as published in the Anoka export. The canonical schema is always
// derived from the reference dataset itself; this layout documents what the
// county tables expect to find there.
func MetroFields() []schema.Field {
	return []schema.Field{
		{Name: "COUNTY_ID", Type: schema.String, Width: 3, Precision: 0},
		{Name: "PIN", Type: schema.String, Width: 17, Precision: 0},
		{Name: "BLDG_NUM", Type: schema.String, Width: 10, Precision: 0},
		{Name: "PREFIX_DIR", Type: schema.String, Width: 2, Precision: 0},
		{Name: "PREFIXTYPE", Type: schema.String, Width: 6, Precision: 0},
		{Name: "STREETNAME", Type: schema.String, Width: 40, Precision: 0},
		{Name: "STREETTYPE", Type: schema.String, Width: 4, Precision: 0},
		{Name: "SUFFIX_DIR", Type: schema.String, Width: 2, Precision: 0},
		{Name: "UNIT_INFO", Type: schema.String, Width: 12, Precision: 0},
		{Name: "CITY", Type: schema.String, Width: 30, Precision: 0},
		{Name: "CITY_USPS", Type: schema.String, Width: 30, Precision: 0},
		{Name: "ZIP", Type: schema.String, Width: 5, Precision: 0},
		{Name: "ZIP4", Type: schema.String, Width: 4, Precision: 0},
		{Name: "PLAT_NAME", Type: schema.String, Width: 50, Precision: 0},
		{Name: "BLOCK", Type: schema.String, Width: 5, Precision: 0},
		{Name: "LOT", Type: schema.String, Width: 5, Precision: 0},
		{Name: "ACRES_POLY", Type: schema.Real, Width: 11, Precision: 2},
		{Name: "ACRES_DEED", Type: schema.Real, Width: 11, Precision: 2},
		{Name: "USE1_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "USE2_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "USE3_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "USE4_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "MULTI_USES", Type: schema.String, Width: 1, Precision: 0},
		{Name: "LANDMARK", Type: schema.String, Width: 100, Precision: 0},
		{Name: "OWNER_NAME", Type: schema.String, Width: 50, Precision: 0},
		{Name: "OWNER_MORE", Type: schema.String, Width: 50, Precision: 0},
		{Name: "OWN_ADD_L1", Type: schema.String, Width: 40, Precision: 0},
		{Name: "OWN_ADD_L2", Type: schema.String, Width: 40, Precision: 0},
		{Name: "OWN_ADD_L3", Type: schema.String, Width: 40, Precision: 0},
		{Name: "TAX_NAME", Type: schema.String, Width: 40, Precision: 0},
		{Name: "TAX_ADD_L1", Type: schema.String, Width: 40, Precision: 0},
		{Name: "TAX_ADD_L2", Type: schema.String, Width: 40, Precision: 0},
		{Name: "TAX_ADD_L3", Type: schema.String, Width: 40, Precision: 0},
		{Name: "HOMESTEAD", Type: schema.String, Width: 1, Precision: 0},
		{Name: "EMV_LAND", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "EMV_BLDG", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "EMV_TOTAL", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "TAX_CAPAC", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "TOTAL_TAX", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "SPEC_ASSES", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "TAX_EXEMPT", Type: schema.String, Width: 1, Precision: 0},
		{Name: "XUSE1_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "XUSE2_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "XUSE3_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "XUSE4_DESC", Type: schema.String, Width: 100, Precision: 0},
		{Name: "DWELL_TYPE", Type: schema.String, Width: 30, Precision: 0},
		{Name: "HOME_STYLE", Type: schema.String, Width: 30, Precision: 0},
		{Name: "FIN_SQ_FT", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "GARAGE", Type: schema.String, Width: 1, Precision: 0},
		{Name: "GARAGESQFT", Type: schema.String, Width: 11, Precision: 0},
		{Name: "BASEMENT", Type: schema.String, Width: 1, Precision: 0},
		{Name: "HEATING", Type: schema.String, Width: 30, Precision: 0},
		{Name: "COOLING", Type: schema.String, Width: 30, Precision: 0},
		{Name: "YEAR_BUILT", Type: schema.Integer, Width: 4, Precision: 0},
		{Name: "NUM_UNITS", Type: schema.String, Width: 6, Precision: 0},
		{Name: "SALE_DATE", Type: schema.Date, Width: 10, Precision: 0},
		{Name: "SALE_VALUE", Type: schema.Real, Width: 11, Precision: 0},
		{Name: "SCHOOL_DST", Type: schema.String, Width: 6, Precision: 0},
		{Name: "WSHD_DIST", Type: schema.String, Width: 50, Precision: 0},
		{Name: "GREEN_ACRE", Type: schema.String, Width: 1, Precision: 0},
		{Name: "OPEN_SPACE", Type: schema.String, Width: 1, Precision: 0},
		{Name: "AG_PRESERV", Type: schema.String, Width: 1, Precision: 0},
		{Name: "AGPRE_ENRD", Type: schema.Date, Width: 10, Precision: 0},
		{Name: "AGPRE_EXPD", Type: schema.Date, Width: 10, Precision: 0},
		{Name: "PARC_CODE", Type: schema.Integer, Width: 2, Precision: 0},
	}
}

// MetroSchema returns MetroFields as a schema named MetroLayer.
func MetroSchema() *schema.Schema {
	return schema.MustNew(MetroLayer, MetroFields()...)
}
