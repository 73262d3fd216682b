package service

// ToolDefinition describes one callable tool for a function-calling chat API.
// Parameters is a JSON Schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// SystemPrompt is the fixed capability description sent to the reasoning
// engine on every turn. It carries the slot-ordering rule the dispatcher and
// session also enforce.
const SystemPrompt = `You are a Property Search Assistant that helps users find properties near schools.

You have access to these tools:
1. search_properties - Search for properties near a school
2. list_schools - List all available schools in the database
3. ask_clarification - Ask the user for missing information
4. geocode_location - Get the coordinates (lat/lon) of a location

CRITICAL RULES FOR search_properties:
- You MUST have ALL 4 of these fields before calling search_properties:
  * school_name - which school to search near
  * radius_miles - search radius in miles
  * area_min_sqft - MINIMUM property area in sqft
  * area_max_sqft - MAXIMUM property area in sqft

- NEVER call search_properties if ANY field is missing!
- If missing, use ask_clarification to ask for it ONE at a time in this order:
  1. First: school_name (if missing)
  2. Then: radius_miles (if missing)
  3. Finally: area_min_sqft AND area_max_sqft together (if missing)

UNIT HANDLING:
- Radius: "miles" or a bare number = use as-is | "km" = multiply by 0.621371
- Area: "sqft" = use as-is | "sqm" = multiply by 10.7639`

// ToolDefinitions returns the closed set of operations the reasoning engine
// may call, with their argument schemas.
func ToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        ToolSearchProperties,
			Description: "Search for properties near a school. ONLY call this when you have ALL 4 required fields: school_name, radius_miles, area_min_sqft, area_max_sqft. If ANY is missing, use ask_clarification first.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"school_name": map[string]any{
						"type":        "string",
						"description": "Name of the school to search near",
					},
					"radius_miles": map[string]any{
						"type":        "number",
						"description": "Search radius in miles",
					},
					"area_min_sqft": map[string]any{
						"type":        "number",
						"description": "Minimum property area in square feet (REQUIRED)",
					},
					"area_max_sqft": map[string]any{
						"type":        "number",
						"description": "Maximum property area in square feet (REQUIRED)",
					},
				},
				"required": []string{"school_name", "radius_miles", "area_min_sqft", "area_max_sqft"},
			},
		},
		{
			Name:        ToolListSchools,
			Description: "List all available schools in the database. Use when the user asks what schools are available or when the school name is unclear.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
				"required":   []string{},
			},
		},
		{
			Name:        ToolAskClarification,
			Description: "Ask the user for missing information. Use when the school name, radius, or area range is missing or ambiguous.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{
						"type":        "string",
						"description": "The clarification question to ask the user",
					},
					"missing_field": map[string]any{
						"type":        "string",
						"enum":        []string{"radius", "school_name", "area"},
						"description": "What information is missing",
					},
				},
				"required": []string{"question", "missing_field"},
			},
		},
		{
			Name:        ToolGeocodeLocation,
			Description: "Get the coordinates (latitude, longitude) of a location (school or place) from the database. Use this when you need to know where a place is located.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location_name": map[string]any{
						"type":        "string",
						"description": "Name of the location/school to get coordinates for",
					},
				},
				"required": []string{"location_name"},
			},
		},
	}
}
