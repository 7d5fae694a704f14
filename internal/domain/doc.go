// Package domain models county unemployment data from the Bureau of Labor
// Statistics (BLS) Local Area Unemployment Statistics (LAUS) program.
//
// # Data Source
//
// Series are requested from the BLS Public Data API v2 by POSTing a JSON
// body to https://api.bls.gov/publicAPI/v2/timeseries/data/. One request per
// county; each request names a single series and a year range.
//
// # Series Identifiers
//
// LAUS county series IDs are 20 characters:
//
//	LAU CN 37119 0000000 03
//	 |   |   |      |     +-- measure: 03 = unemployment rate
//	 |   |   |      +-------- padding
//	 |   |   +--------------- county FIPS code, zero-padded to 5 digits
//	 |   +------------------- area type: CN = county or equivalent
//	 +----------------------- survey: LAUS
//
// County codes are sparse. Codes that do not exist still get a well-formed
// response, with an empty data list.
//
// # Records
//
// Raw records carry every scalar as a string:
//
//	{"year":"2013","period":"M12","periodName":"December","value":"6.0","footnotes":[{}]}
//
// Normalization produces:
//
//	{"year":2013,"month":12,"periodName":"December","value":6.0}
//
// Period M13 is the annual average, only returned when the request sets
// annualaverage. It is kept as month 13 (see [AnnualAverageMonth]).
//
// Values are percentages of the labor force. BLS uses "-" for unavailable
// values; such records fail normalization rather than becoming zero.
package domain
