package cluster

// frontierFields is the survey footprint table. The declination pair is
// stored as written in the survey release, which is (min, max) for every
// cluster; ContainsDec does not depend on the order.
var frontierFields = []Entry{
	{Name: "macs0717", Box: Box{RAMax: 109.43863048556054, RAMin: 109.33323737580649, DecMax: 37.708234125318704, DecMin: 37.791567413408224}},
	{Name: "abell2744", Box: Box{RAMax: 3.6349786790793948, RAMin: 3.531611340899466, DecMax: -30.439247968007468, DecMin: -30.336748088394312}},
	{Name: "abell370", Box: Box{RAMax: 40.00302643255294, RAMin: 39.92299569762585, DecMax: -1.6432928825364999, DecMin: -1.5332929431505387}},
	{Name: "macs1149", Box: Box{RAMax: 177.44326387785338, RAMin: 177.34591790002193, DecMax: 22.356309256746993, DecMin: 22.446309208248984}},
	{Name: "abell1063", Box: Box{RAMax: 342.23815044338255, RAMin: 342.12452654293924, DecMax: -44.57507016811651, DecMin: -44.48856837273851}},
	{Name: "macs0416", Box: Box{RAMax: 64.08056990070776, RAMin: 63.989300170823576, DecMax: -24.114107728713556, DecMin: -24.030773153403377}},
}
