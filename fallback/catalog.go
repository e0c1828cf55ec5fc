package fallback

// demoCatalog is the fixed demo product set the suggestion fallback
// filters client-side. Prices are placeholder content.
var demoCatalog = []demoProduct{
	{ID: 9001, Title: "Seamless Carbon Steel Pipe", Description: "Schedule 40 seamless carbon steel pipe for general process service", Price: 48.50, Category: "pipes"},
	{ID: 9002, Title: "Galvanized Iron Pipe", Description: "Hot-dip galvanized GI pipe for water distribution lines", Price: 32.00, Category: "pipes"},
	{ID: 9003, Title: "Stainless Steel 316L Pipe", Description: "Corrosion resistant 316L stainless pipe for chemical plants", Price: 96.75, Category: "pipes"},
	{ID: 9004, Title: "PVC Pressure Pipe", Description: "UPVC pressure pipe for irrigation and cold water supply", Price: 12.25, Category: "pipes"},
	{ID: 9005, Title: "Forged Elbow Fitting 90 Degree", Description: "ASME B16.11 forged steel 90 degree elbow, socket weld", Price: 8.40, Category: "fittings"},
	{ID: 9006, Title: "Equal Tee Fitting", Description: "Butt weld equal tee for carbon steel piping systems", Price: 14.90, Category: "fittings"},
	{ID: 9007, Title: "Concentric Reducer", Description: "Seamless concentric reducer for line size transitions", Price: 11.60, Category: "fittings"},
	{ID: 9008, Title: "Weld Neck Flange", Description: "Class 150 weld neck flange with raised face finish", Price: 27.30, Category: "fittings"},
	{ID: 9009, Title: "Gate Valve Cast Steel", Description: "Rising stem gate valve for isolation duty, flanged ends", Price: 145.00, Category: "valves"},
	{ID: 9010, Title: "Ball Valve Full Bore", Description: "Two-piece full bore ball valve with lever handle", Price: 68.00, Category: "valves"},
	{ID: 9011, Title: "Check Valve Swing Type", Description: "Swing check valve preventing reverse flow in pump discharge", Price: 84.50, Category: "valves"},
	{ID: 9012, Title: "Globe Valve Bronze", Description: "Bronze globe valve for throttling service on steam lines", Price: 57.25, Category: "valves"},
	{ID: 9013, Title: "Pipe Repair Clamp", Description: "Stainless repair clamp for emergency leak sealing", Price: 19.80, Category: "other"},
	{ID: 9014, Title: "PTFE Thread Seal Tape", Description: "High density PTFE tape for threaded pipe joints", Price: 1.95, Category: "other"},
	{ID: 9015, Title: "Spiral Wound Gasket", Description: "Graphite filled spiral wound gasket for flanged joints", Price: 6.10, Category: "other"},
}
