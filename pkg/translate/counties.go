package translate

// HennepinRules maps the Hennepin county export. Fields it has no equivalent
// for (PREFIX_DIR, ZIP4, PLAT_NAME, exemptions, building details and the
// program flags among others) are left out and stay Null.
func HennepinRules() []Rule {
	return []Rule{
		Copy("PIN", "PID"),
		Join("BLDG_NUM", "HOUSE_NO", "FRAC_HOUSE"),
		Copy("STREETNAME", "STREET_NM"),
		Copy("CITY", "MUNIC_NM"),
		Copy("CITY_USPS", "MAILING__1"),
		Copy("ZIP", "ZIP_CD"),
		Copy("BLOCK", "BLOCK"),
		Copy("LOT", "LOT"),
		Scale("ACRES_POLY", "Shape_area", SquareMetersToAcres),
		Scale("ACRES_DEED", "PARCEL_ARE", SquareFeetToAcres),
		Copy("USE1_DESC", "PROPERTY_T"),
		Copy("OWNER_NAME", "OWNER_NM"),
		Copy("TAX_NAME", "TAXPAYER_N"),
		Copy("TAX_ADD_L1", "TAXPAYER_1"),
		Copy("TAX_ADD_L2", "TAXPAYER_2"),
		Copy("TAX_ADD_L3", "TAXPAYER_3"),
		Recode("HOMESTEAD", "HMSTD_CD1_", HomesteadCodes),
		Float("EMV_LAND", "EST_LAND_M"),
		Float("EMV_BLDG", "EST_BLDG_M"),
		Float("EMV_TOTAL", "MKT_VAL_TO"),
		Float("TAX_CAPAC", "NET_TAX_CA"),
		Float("TOTAL_TAX", "TAX_TOT"),
		Int("YEAR_BUILT", "BUILD_YR"),
		YearMonth("SALE_DATE", "SALE_DATE"),
		Float("SALE_VALUE", "SALE_PRICE"),
		Copy("SCHOOL_DST", "SCHOOL_DIS"),
		Copy("WSHD_DIST", "WATERSHED_"),
	}
}

// RamseyRules maps the Ramsey county attributed parcel export. Ramsey
// already uses metro-style attributes so every rule is a direct copy;
// numeric and date targets are still coerced by the canonical field type.
func RamseyRules() []Rule {
	return []Rule{
		Copy("PIN", "ParcelID"),
		Copy("BLDG_NUM", "BldgNum"),
		Copy("PREFIX_DIR", "StrPreDir"),
		Copy("PREFIXTYPE", "StrPreType"),
		Copy("STREETNAME", "StreetName"),
		Copy("SUFFIX_DIR", "StrSufDir"),
		Copy("UNIT_INFO", "Unit"),
		Copy("CITY", "SiteCity"),
		Copy("CITY_USPS", "SiteCityPS"),
		Copy("ZIP", "SiteZIP5"),
		Copy("ZIP4", "SiteZIP4"),
		Copy("PLAT_NAME", "PlatName"),
		Copy("BLOCK", "Block"),
		Copy("LOT", "Lot"),
		Copy("ACRES_POLY", "AcresPoly"),
		Copy("ACRES_DEED", "AcresDeed"),
		Copy("USE1_DESC", "UseType1"),
		Copy("USE2_DESC", "UseType2"),
		Copy("USE3_DESC", "UseType3"),
		Copy("USE4_DESC", "UseType4"),
		Copy("MULTI_USES", "MultiUseYN"),
		Copy("LANDMARK", "Landmark"),
		Copy("HOMESTEAD", "HmstdYN"),
		Copy("EMV_LAND", "EMVLand"),
		Copy("EMV_BLDG", "EMVBldg"),
		Copy("EMV_TOTAL", "EMVTotal"),
		Copy("TAX_CAPAC", "TaxCap"),
		Copy("TOTAL_TAX", "TotalTax"),
		Copy("SPEC_ASSES", "SpAssess"),
		Copy("TAX_EXEMPT", "TaxExYN"),
		Copy("XUSE1_DESC", "ExemptUse1"),
		Copy("XUSE2_DESC", "ExemptUse2"),
		Copy("XUSE3_DESC", "ExemptUse3"),
		Copy("XUSE4_DESC", "ExemptUse4"),
		Copy("DWELL_TYPE", "DwellType"),
		Copy("HOME_STYLE", "HomeStyle"),
		Copy("FIN_SQ_FT", "LivingSqFt"),
		Copy("GARAGE", "GarageYN"),
		Copy("GARAGESQFT", "GarageSqFt"),
		Copy("BASEMENT", "BasementYN"),
		Copy("HEATING", "HeatType"),
		Copy("COOLING", "CoolType"),
		Copy("YEAR_BUILT", "YearBuilt"),
		Copy("NUM_UNITS", "LivingUnit"),
		Copy("SALE_DATE", "LastSale"),
		Copy("SALE_VALUE", "SalePrice"),
		Copy("SCHOOL_DST", "SchDistNum"),
		Copy("WSHD_DIST", "WshdTax"),
		Copy("GREEN_ACRE", "GrnAcresYN"),
		Copy("OPEN_SPACE", "OpenSpcYN"),
		Copy("AG_PRESERV", "AgPYN"),
		Copy("AGPRE_ENRD", "AgPEnroll"),
		Copy("AGPRE_EXPD", "AgPExpire"),
	}
}
